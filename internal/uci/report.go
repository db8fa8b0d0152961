package uci

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// StartFEN is the standard starting position, used for "position startpos".
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ReportKind distinguishes the commands decoded from the controller.
type ReportKind int

const (
	// ReportUnknown is any line the parser does not recognise.
	ReportUnknown ReportKind = iota
	ReportUci
	ReportUciNewGame
	ReportIsReady
	ReportSetOption
	ReportPosition
	ReportGoInfinite
	ReportGoDepth
	ReportGoMoveTime
	ReportGoNodes
	ReportStop
	ReportQuit
)

var reportKindNames = [...]string{
	ReportUnknown:    "unknown",
	ReportUci:        "uci",
	ReportUciNewGame: "ucinewgame",
	ReportIsReady:    "isready",
	ReportSetOption:  "setoption",
	ReportPosition:   "position",
	ReportGoInfinite: "go-infinite",
	ReportGoDepth:    "go-depth",
	ReportGoMoveTime: "go-movetime",
	ReportGoNodes:    "go-nodes",
	ReportStop:       "stop",
	ReportQuit:       "quit",
}

func (k ReportKind) String() string {
	if k >= 0 && int(k) < len(reportKindNames) {
		return reportKindNames[k]
	}
	return fmt.Sprintf("ReportKind(%d)", int(k))
}

// Report is one decoded input line. Only the fields belonging to Kind are set.
type Report struct {
	Kind ReportKind

	// Line is the input line with trailing whitespace removed.
	Line string

	// Position
	FEN   string
	Moves []string

	// Search limits
	Depth    int8
	MoveTime time.Duration
	Nodes    uint64

	// SetOption
	Name  string
	Value string
}

// Clone returns a copy that shares no mutable state with r.
func (r Report) Clone() Report {
	if r.Moves != nil {
		r.Moves = append([]string(nil), r.Moves...)
	}
	return r
}

// Parse decodes one input line. It is pure and never fails: anything it
// cannot decode becomes a ReportUnknown.
func Parse(line string) Report {
	r, _ := parseLine(line)
	return r
}

// parseLine is Parse plus the reason a supported command was rejected, so the
// reader can log it.
func parseLine(line string) (Report, error) {
	cmd := strings.TrimRightFunc(line, unicode.IsSpace)
	unknown := Report{Kind: ReportUnknown, Line: cmd}

	var (
		r   Report
		err error
	)
	switch {
	case cmd == "uci":
		r = Report{Kind: ReportUci}
	case cmd == "ucinewgame":
		r = Report{Kind: ReportUciNewGame}
	case cmd == "isready":
		r = Report{Kind: ReportIsReady}
	case cmd == "stop":
		r = Report{Kind: ReportStop}
	case cmd == "quit" || cmd == "exit":
		r = Report{Kind: ReportQuit}
	case strings.HasPrefix(cmd, "setoption "):
		r, err = parseSetOption(strings.Fields(cmd)[1:])
	case strings.HasPrefix(cmd, "position "):
		r, err = parsePosition(strings.Fields(cmd)[1:])
	case strings.HasPrefix(cmd, "go "):
		r, err = parseGo(strings.Fields(cmd)[1:])
	default:
		return unknown, nil
	}
	if err != nil {
		return unknown, err
	}

	r.Line = cmd
	return r, nil
}

var errMalformed = errors.New("malformed command")

// parseSetOption handles "name <id...> [value <x...>]".
func parseSetOption(args []string) (Report, error) {
	if len(args) < 2 || args[0] != "name" {
		return Report{}, fmt.Errorf("setoption: %w", errMalformed)
	}

	args = args[1:]
	valueAt := len(args)
	for i, tok := range args {
		if tok == "value" {
			valueAt = i
			break
		}
	}
	if valueAt == 0 {
		return Report{}, fmt.Errorf("setoption: missing option name: %w", errMalformed)
	}

	r := Report{
		Kind: ReportSetOption,
		Name: strings.Join(args[:valueAt], " "),
	}
	if valueAt < len(args) {
		r.Value = strings.Join(args[valueAt+1:], " ")
	}
	return r, nil
}

// parsePosition handles "startpos [moves ...]" and "fen <6 fields> [moves ...]".
func parsePosition(args []string) (Report, error) {
	if len(args) == 0 {
		return Report{}, fmt.Errorf("position: %w", errMalformed)
	}

	var fen string
	var rest []string
	switch args[0] {
	case "startpos":
		fen = StartFEN
		rest = args[1:]
	case "fen":
		end := 1
		for end < len(args) && args[end] != "moves" {
			end++
		}
		parts := args[1:end]
		if len(parts) != 6 {
			return Report{}, fmt.Errorf("position: %w", &RunError{Code: ErrCodeFenParts})
		}
		fen = strings.Join(parts, " ")
		rest = args[end:]
	default:
		return Report{}, fmt.Errorf("position: unexpected %q: %w", args[0], errMalformed)
	}

	r := Report{Kind: ReportPosition, FEN: fen}
	if len(rest) == 0 {
		return r, nil
	}
	if rest[0] != "moves" {
		return Report{}, fmt.Errorf("position: unexpected %q: %w", rest[0], errMalformed)
	}
	if len(rest) > 1 {
		r.Moves = append([]string(nil), rest[1:]...)
	}
	return r, nil
}

// parseGo handles the single-limit search forms.
func parseGo(args []string) (Report, error) {
	switch {
	case len(args) == 1 && args[0] == "infinite":
		return Report{Kind: ReportGoInfinite}, nil

	case len(args) == 2 && args[0] == "depth":
		depth, err := strconv.ParseInt(args[1], 10, 8)
		if err != nil || depth < 1 {
			return Report{}, fmt.Errorf("go depth %q: %w", args[1], errMalformed)
		}
		return Report{Kind: ReportGoDepth, Depth: int8(depth)}, nil

	case len(args) == 2 && args[0] == "movetime":
		millis, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return Report{}, fmt.Errorf("go movetime %q: %w", args[1], errMalformed)
		}
		return Report{Kind: ReportGoMoveTime, MoveTime: time.Duration(millis) * time.Millisecond}, nil

	case len(args) == 2 && args[0] == "nodes":
		nodes, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return Report{}, fmt.Errorf("go nodes %q: %w", args[1], errMalformed)
		}
		return Report{Kind: ReportGoNodes, Nodes: nodes}, nil
	}

	return Report{}, fmt.Errorf("go %s: unsupported limits: %w", strings.Join(args, " "), errMalformed)
}
