package report

import (
	"context"
	"sync"

	"github.com/fixora-ai/fixora/internal/metrics"
)

// Pool caps how many renders run at once. Callers beyond capacity wait for a
// free slot or for their context to end.
type Pool struct {
	next  Renderer
	slots chan struct{}

	mu     sync.Mutex
	active int
}

// NewPool wraps next with a capacity of maxConcurrent. A capacity below one
// leaves renders unbounded.
func NewPool(next Renderer, maxConcurrent int) Renderer {
	if maxConcurrent < 1 {
		return next
	}
	return &Pool{
		next:  next,
		slots: make(chan struct{}, maxConcurrent),
	}
}

func (p *Pool) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	p.incrementActive()
	defer func() {
		p.decrementActive()
		<-p.slots
	}()

	return p.next.RenderPDF(ctx, html)
}

// Active returns the number of renders in flight.
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Pool) incrementActive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active++
	metrics.PDFRendersActive.Inc()
}

func (p *Pool) decrementActive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active > 0 {
		p.active--
		metrics.PDFRendersActive.Dec()
	}
}
