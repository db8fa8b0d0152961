// Command latruncularius is a UCI chess engine speaking on stdin/stdout.
package main

import (
	"fmt"
	"os"

	"github.com/latruncularius/latruncularius/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
