// Package about holds the engine's identity as reported by "id name" and
// "id author".
package about

const (
	// Engine is the name reported to the controller.
	Engine = "Latruncularius"

	// Author is reported on the "id author" line.
	Author = "Lucas Hilgert"
)

// Version is the engine version. Release builds override it with
// -ldflags "-X github.com/latruncularius/latruncularius/internal/about.Version=...".
var Version = "0.1.0"
