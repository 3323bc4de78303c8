package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer spaces page fetches of one run at least delay apart.
type pacer struct {
	limiter *rate.Limiter
}

func newPacer(delay time.Duration) *pacer {
	if delay <= 0 {
		return &pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &pacer{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the next fetch may start. It returns an error when ctx
// is done, or when its deadline would pass before the wait finishes.
func (p *pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
