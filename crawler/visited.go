package crawler

import "sync"

// VisitedTracker is the visited-page set of one scan run. Membership is exact
// string equality on normalized URLs. Only fetched pages are added, so a run
// holds at most MaxPages entries.
type VisitedTracker struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedTracker creates an empty tracker sized for the expected number of
// URLs. The initial allocation is capped; the set grows past it as needed.
func NewVisitedTracker(expected int) *VisitedTracker {
	return &VisitedTracker{urls: make(map[string]struct{}, min(max(expected, 0), 1024))}
}

// Visit marks a URL as visited. Visiting a URL twice is a no-op.
func (v *VisitedTracker) Visit(url string) {
	v.VisitIfNew(url)
}

// IsVisited reports whether url has been visited.
func (v *VisitedTracker) IsVisited(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.urls[url]
	return ok
}

// VisitIfNew atomically checks if a URL is visited and marks it if not.
// Returns true if the URL was new (not previously visited), false if already visited.
func (v *VisitedTracker) VisitIfNew(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.urls[url]; ok {
		return false
	}
	v.urls[url] = struct{}{}
	return true
}

// Len returns the number of distinct visited URLs.
func (v *VisitedTracker) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}
