package crawler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierFIFO(t *testing.T) {
	f := NewFrontier("https://example.com/")
	f.Push(Entry{URL: "b", Depth: 1})
	f.Push(Entry{URL: "c", Depth: 1})

	want := []Entry{
		{URL: "https://example.com/", Depth: 0},
		{URL: "b", Depth: 1},
		{URL: "c", Depth: 1},
	}
	for i, w := range want {
		got, ok := f.Pop()
		require.True(t, ok, "Pop() #%d returned empty", i)
		assert.Equal(t, w, got, "Pop() #%d", i)
	}

	_, ok := f.Pop()
	assert.False(t, ok, "Pop() on empty frontier")
	assert.Zero(t, f.Len())
}

func TestFrontierCompactionKeepsOrder(t *testing.T) {
	f := NewFrontier("seed")
	const n = 5000
	for i := range n {
		f.Push(Entry{URL: fmt.Sprintf("u%d", i), Depth: 1})
	}

	got, _ := f.Pop()
	require.Equal(t, "seed", got.URL)
	for i := range n {
		got, ok := f.Pop()
		require.True(t, ok, "frontier ran dry at %d", i)
		require.Equal(t, fmt.Sprintf("u%d", i), got.URL)
		if i == n/2 {
			f.Push(Entry{URL: "tail", Depth: 2})
		}
	}
	got, _ = f.Pop()
	assert.Equal(t, "tail", got.URL)
}
