package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerSpacesCalls(t *testing.T) {
	p := newPacer(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for range 3 {
		require.NoError(t, p.Wait(ctx))
	}
	// First call is immediate, the next two wait one interval each.
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestPacerDisabled(t *testing.T) {
	p := newPacer(-1)
	start := time.Now()
	for range 100 {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestPacerCancelled(t *testing.T) {
	p := newPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.Wait(ctx), "first wait is immediate")
	cancel()
	assert.Error(t, p.Wait(ctx))
}
