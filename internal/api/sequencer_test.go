package api

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencer_LastRequestWins(t *testing.T) {
	seq := NewSequencer()

	first := seq.Begin("doctors.list")
	second := seq.Begin("doctors.list")

	// The slow first response arrives after the second request was issued
	// and must be dropped.
	assert.False(t, seq.Latest(first))
	assert.True(t, seq.Latest(second))
}

func TestSequencer_QueriesAreIndependent(t *testing.T) {
	seq := NewSequencer()

	doctors := seq.Begin("doctors.list")
	posts := seq.Begin("blog.posts")

	assert.True(t, seq.Latest(doctors))
	assert.True(t, seq.Latest(posts))

	seq.Begin("doctors.list")
	assert.False(t, seq.Latest(doctors))
	assert.True(t, seq.Latest(posts))
}

func TestSequencer_ConcurrentBegin(t *testing.T) {
	seq := NewSequencer()

	const n = 100
	tickets := make([]Ticket, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			tickets[i] = seq.Begin("q")
		}()
	}
	wg.Wait()

	latest := 0
	for _, ticket := range tickets {
		if seq.Latest(ticket) {
			latest++
		}
	}
	assert.Equal(t, 1, latest)
}
