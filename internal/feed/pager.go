// Package feed turns page-numbered API queries into growing feeds.
package feed

import (
	"context"
	"sync"
)

// PageFunc fetches page number page of a feed. Pages start at 1.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// Page is a point-in-time view of a pager
type Page[T any] struct {
	Items   []T   `json:"items"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	Loading bool  `json:"loading"`
	Err     error `json:"-"`
}

// Pager accumulates the pages of one logical feed. A page with no items
// ends the feed. Only one fetch runs at a time: LoadMore while a fetch is
// outstanding is a no-op.
type Pager[T any] struct {
	mu         sync.Mutex
	fetch      PageFunc[T]
	pages      [][]T
	done       bool
	inFlight   bool
	generation uint64
	err        error
}

// NewPager creates a pager over fetch
func NewPager[T any](fetch PageFunc[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch}
}

// LoadMore fetches the next page. It reports whether a page was appended;
// false with a nil error means the signal was ignored because a fetch was
// already running, the feed had ended, or the pager was reset meanwhile.
func (p *Pager[T]) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.inFlight || p.done {
		p.mu.Unlock()
		return false, nil
	}
	p.inFlight = true
	gen := p.generation
	page := len(p.pages) + 1
	p.mu.Unlock()

	items, err := p.fetch(ctx, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	// Reset ran while we were fetching; this response belongs to nobody.
	if gen != p.generation {
		return false, nil
	}

	p.inFlight = false
	if err != nil {
		p.err = err
		return false, err
	}

	p.err = nil
	p.pages = append(p.pages, items)
	if len(items) == 0 {
		p.done = true
	}
	return true, nil
}

// Ensure loads the first page if nothing has been loaded yet
func (p *Pager[T]) Ensure(ctx context.Context) error {
	p.mu.Lock()
	loaded := len(p.pages) > 0
	p.mu.Unlock()
	if loaded {
		return nil
	}

	_, err := p.LoadMore(ctx)
	return err
}

// Watch calls LoadMore for every signal until ctx is done or signals is
// closed. Signals arriving while a fetch runs are dropped by LoadMore.
// Fetch errors go to onError when it is non-nil.
func (p *Pager[T]) Watch(ctx context.Context, signals <-chan struct{}, onError func(error)) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := p.LoadMore(ctx); err != nil && onError != nil {
					onError(err)
				}
			}()
		}
	}
}

// Reset drops every loaded page and abandons any outstanding fetch. The
// next LoadMore starts again from page 1.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.pages = nil
	p.done = false
	p.inFlight = false
	p.err = nil
}

// Items returns the loaded items in fetch order
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.itemsLocked()
}

// HasNext reports whether another page may exist
func (p *Pager[T]) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.done
}

// Snapshot returns the pager's current state
func (p *Pager[T]) Snapshot() Page[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Page[T]{
		Items:   p.itemsLocked(),
		Pages:   len(p.pages),
		HasNext: !p.done,
		Loading: p.inFlight,
		Err:     p.err,
	}
}

func (p *Pager[T]) itemsLocked() []T {
	n := 0
	for _, page := range p.pages {
		n += len(page)
	}
	items := make([]T, 0, n)
	for _, page := range p.pages {
		items = append(items, page...)
	}
	return items
}
