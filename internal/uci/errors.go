package uci

import (
	"errors"
	"fmt"
)

// Fatal error categories. None of these are retried.
var (
	// ErrReadInput indicates the input stream was closed or unreadable.
	ErrReadInput = errors.New("reading input failed")

	// ErrWriteOutput indicates the output stream rejected a reply.
	ErrWriteOutput = errors.New("writing output failed")

	// ErrBrokenChannel indicates a queue was closed while its peer was alive.
	ErrBrokenChannel = errors.New("broken channel")

	// ErrWorkerFailed indicates a protocol goroutine terminated abnormally.
	ErrWorkerFailed = errors.New("worker failed")

	// ErrAlreadyStarted is returned by Start on a second call.
	ErrAlreadyStarted = errors.New("protocol already started")
)

// FatalError records which protocol goroutine failed and why.
type FatalError struct {
	// Unit is "reader" or "writer".
	Unit string
	Err  error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Unit, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// RunErrorCode identifies a validation failure from the engine's reserved
// error table.
type RunErrorCode uint8

const (
	ErrCodeFenParts RunErrorCode = iota
	ErrCodeFenPieces
	ErrCodeFenColor
	ErrCodeFenCastling
	ErrCodeFenEnPassant
	ErrCodeFenHalfMove
	ErrCodeFenFullMove
)

var runErrorMessages = [...]string{
	ErrCodeFenParts:     "FEN: Must have six parts",
	ErrCodeFenPieces:    "FEN: Pieces and squares incorrect",
	ErrCodeFenColor:     "FEN: Color selection incorrect",
	ErrCodeFenCastling:  "FEN: Castling permissions incorrect",
	ErrCodeFenEnPassant: "FEN: En-passant square incorrect",
	ErrCodeFenHalfMove:  "FEN: Half-move clock incorrect",
	ErrCodeFenFullMove:  "FEN: Full-move number incorrect",
}

// String returns the table message for the code.
func (c RunErrorCode) String() string {
	if int(c) < len(runErrorMessages) {
		return runErrorMessages[c]
	}
	return fmt.Sprintf("unknown error code %d", uint8(c))
}

// RunError is a validation failure carrying a code from the reserved table.
type RunError struct {
	Code RunErrorCode
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("error code %d: %s", uint8(e.Code), e.Code)
}

// IsRunError reports whether err wraps a RunError with the given code.
func IsRunError(err error, code RunErrorCode) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
