package crawler

// Entry is one unit of crawl work: a page URL and its link distance from the seed.
type Entry struct {
	URL   string
	Depth int
}

// Frontier is the strictly FIFO work queue of a single scan run.
// Popping in insertion order, with children pushed at parent depth+1,
// yields breadth-first traversal.
type Frontier struct {
	queue []Entry
	head  int
}

// NewFrontier returns a frontier seeded with url at depth 0.
func NewFrontier(url string) *Frontier {
	return &Frontier{queue: []Entry{{URL: url, Depth: 0}}}
}

// Push appends an entry to the back of the queue.
func (f *Frontier) Push(e Entry) {
	f.queue = append(f.queue, e)
}

// Pop removes and returns the entry at the front of the queue.
// Returns false if the frontier is empty.
func (f *Frontier) Pop() (Entry, bool) {
	if f.head >= len(f.queue) {
		return Entry{}, false
	}
	e := f.queue[f.head]
	f.queue[f.head] = Entry{}
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append(f.queue[:0:0], f.queue[f.head:]...)
		f.head = 0
	}
	return e, true
}

// Len returns the number of entries waiting in the queue.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}
