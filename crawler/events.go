package crawler

import (
	"context"

	"github.com/lukemcguire/pdfsweep/result"
)

// EventKind identifies what a progress Event reports.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventPage      EventKind = "page"
	EventPageError EventKind = "page_error"
	EventPDF       EventKind = "pdf"
	EventFinished  EventKind = "finished"
	EventAborted   EventKind = "aborted"
)

// Event reports scan progress. Message is a human-readable progress line;
// the counters are the run's totals at the time of the event.
type Event struct {
	Kind         EventKind
	State        State
	Seed         string
	URL          string
	Message      string
	Status       result.Status // set for EventPDF
	PagesCrawled int
	ErrorPages   int
	PDFs         int
}

// ProgressFunc receives progress events. A panicking ProgressFunc is
// recovered and never aborts the scan.
type ProgressFunc func(Event)

// ChannelSink adapts a channel to a ProgressFunc. Sends block until the
// event is received or ctx is done, after which events are dropped.
func ChannelSink(ctx context.Context, ch chan<- Event) ProgressFunc {
	return func(evt Event) {
		select {
		case ch <- evt:
		case <-ctx.Done():
		}
	}
}
