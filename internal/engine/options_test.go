package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latruncularius/latruncularius/internal/uci"
)

func TestHashMax_Platform(t *testing.T) {
	if strconv.IntSize == 64 {
		assert.Equal(t, HashMax64Bit, HashMax())
	} else {
		assert.Equal(t, HashMax32Bit, HashMax())
	}
}

func TestHashSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultHashSettings().Validate())
	assert.NoError(t, HashSettings{Default: 0, Max: 0}.Validate())

	assert.Error(t, HashSettings{Default: 64, Max: 32}.Validate())
	assert.Error(t, HashSettings{Default: -1, Max: 32}.Validate())
	assert.Error(t, HashSettings{Default: 32, Max: HashMax() + 1}.Validate())
}

func TestNewRegistry_DefaultOrder(t *testing.T) {
	reg := NewRegistry(DefaultHashSettings())
	lines := reg.Lines()

	assert.Len(t, lines, 2)
	assert.Equal(t, "option name Hash type spin default 32 min 0 max "+strconv.Itoa(HashMax()), lines[0])
	assert.Equal(t, "option name Clear Hash type button", lines[1])
}

func TestSearchRequest_FromReport(t *testing.T) {
	assert.Equal(t, SearchInfinite, searchRequest(uci.Parse("go infinite")).Mode)
	assert.Equal(t, SearchRequest{Mode: SearchDepth, Depth: 9}, searchRequest(uci.Parse("go depth 9")))
	assert.Equal(t, SearchRequest{Mode: SearchNodes, Nodes: 42}, searchRequest(uci.Parse("go nodes 42")))
}
