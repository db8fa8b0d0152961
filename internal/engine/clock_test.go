package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_StartsAtZero(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestClock_ConcurrentReaders(t *testing.T) {
	c := NewClock()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = c.Current()
			}
		}()
	}
	for range 100 {
		c.Next()
	}
	wg.Wait()

	assert.Equal(t, int64(100), c.Current())
}

func TestEngine_SeqCountsHandledMessages(t *testing.T) {
	e, _, err := runEngine(t, "isready\nfoobar\nquit\n")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), e.Seq())
}
