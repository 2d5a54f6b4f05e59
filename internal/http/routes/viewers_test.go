package routes

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/briangreenhill/pokedex/internal/dex"
)

func TestViewersGetCreatesOnce(t *testing.T) {
	made := 0
	v := NewViewers(func() *dex.Controller {
		made++
		return dex.New(nil)
	})

	a, created := v.Get("a")
	assert.True(t, created)
	again, created := v.Get("a")
	assert.False(t, created)
	assert.Same(t, a, again)

	b, _ := v.Get("b")
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, made)
	assert.Equal(t, 2, v.Len())
}

func TestViewersConcurrentGet(t *testing.T) {
	v := NewViewers(func() *dex.Controller { return dex.New(nil) })

	var wg sync.WaitGroup
	created := make(chan bool, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, c := v.Get("same")
			created <- c
		}()
	}
	wg.Wait()
	close(created)

	n := 0
	for c := range created {
		if c {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, v.Len())
}
