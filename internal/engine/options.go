package engine

import (
	"fmt"
	"strconv"

	"github.com/latruncularius/latruncularius/internal/uci"
)

// Option names as shown to the controller.
const (
	OptionHash      = "Hash"
	OptionClearHash = "Clear Hash"
)

// Hash table size limits in MB.
const (
	HashDefault  = 32
	HashMin      = 0
	HashMax64Bit = 65536
	HashMax32Bit = 2048
)

// HashMax is the largest hash size the platform can address.
func HashMax() int {
	if strconv.IntSize == 64 {
		return HashMax64Bit
	}
	return HashMax32Bit
}

// HashSettings are the advertised default and upper bound of the Hash option.
type HashSettings struct {
	Default int
	Max     int
}

// DefaultHashSettings returns the built-in Hash settings for this platform.
func DefaultHashSettings() HashSettings {
	return HashSettings{Default: HashDefault, Max: HashMax()}
}

// Validate checks the settings against the platform limits.
func (h HashSettings) Validate() error {
	if h.Max < HashMin || h.Max > HashMax() {
		return fmt.Errorf("hash max %d out of range [%d, %d]", h.Max, HashMin, HashMax())
	}
	if h.Default < HashMin || h.Default > h.Max {
		return fmt.Errorf("hash default %d out of range [%d, %d]", h.Default, HashMin, h.Max)
	}
	return nil
}

// NewRegistry builds the engine's option registry in advertised order.
func NewRegistry(hash HashSettings) *uci.Registry {
	return uci.NewRegistry(
		uci.Spin(OptionHash, hash.Default, HashMin, hash.Max),
		uci.Button(OptionClearHash),
	)
}
