package mdpage

import "sync"

// pendingImages tracks in-flight image network requests during a page
// load. Event callbacks run on the browser event goroutine, so access is
// mutex-guarded. Removal is idempotent: a request observed as both
// finished and failed is deleted once.
type pendingImages struct {
	mu  sync.Mutex
	set map[string]string // request ID -> URL
}

func newPendingImages() *pendingImages {
	return &pendingImages{set: make(map[string]string)}
}

func (p *pendingImages) add(id, url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set[id] = url
}

func (p *pendingImages) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.set, id)
}

func (p *pendingImages) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.set)
}
