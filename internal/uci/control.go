package uci

import "fmt"

// ControlKind distinguishes the instructions sent to the output writer.
type ControlKind int

const (
	// ControlQuit stops the writer. It produces no output.
	ControlQuit ControlKind = iota + 1
	// ControlIdentify emits id lines, the option list and uciok.
	ControlIdentify
	// ControlReady emits readyok.
	ControlReady
	// ControlInfoString emits "info string <text>".
	ControlInfoString
)

func (k ControlKind) String() string {
	switch k {
	case ControlQuit:
		return "quit"
	case ControlIdentify:
		return "identify"
	case ControlReady:
		return "ready"
	case ControlInfoString:
		return "info-string"
	default:
		return fmt.Sprintf("ControlKind(%d)", int(k))
	}
}

// Control is a message from the engine loop to the output writer.
type Control struct {
	Kind ControlKind
	Text string // ControlInfoString only
}

// InfoString builds an info-string control.
func InfoString(text string) Control {
	return Control{Kind: ControlInfoString, Text: text}
}
