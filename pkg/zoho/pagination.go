package zoho

import (
	"context"
	"errors"
	"iter"
)

// PageFetcher fetches one page of a collection.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, desc RequestDescriptor) ([]T, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, desc RequestDescriptor) ([]T, error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, desc RequestDescriptor) ([]T, error) {
	return f(ctx, desc)
}

// Expansion describes how items of a collection expand into nested collections.
type Expansion[T any] struct {
	// HasChildren reports whether the item owns a nested collection.
	HasChildren func(T) bool
	// ID returns the item identifier used to build the child path.
	ID func(T) string
	// ChildPath returns the nested collection path for a parent id.
	ChildPath func(parentID string) string
}

// IteratorOption configures a PaginationIterator.
type IteratorOption[T any] func(*PaginationIterator[T])

// WithExpansion enables hierarchical expansion.
func WithExpansion[T any](expansion Expansion[T]) IteratorOption[T] {
	return func(p *PaginationIterator[T]) {
		p.expansion = &expansion
	}
}

// WithRateLimitGuard replaces the default rate-limit guard.
func WithRateLimitGuard[T any](guard *RateLimitGuard) IteratorOption[T] {
	return func(p *PaginationIterator[T]) {
		p.guard = guard
	}
}

// WithIteratorLogger sets the logger used by the iterator and its default guard.
func WithIteratorLogger[T any](logger Logger) IteratorOption[T] {
	return func(p *PaginationIterator[T]) {
		p.logger = logger
	}
}

// PaginationIterator walks a paginated collection one item at a time. Top-level pages are
// drained first, then the nested collections of every item that reported children, most
// recently seen parent first. It is single-pass and not safe for concurrent use.
type PaginationIterator[T any] struct {
	ctx       context.Context
	fetcher   PageFetcher[T]
	current   RequestDescriptor
	expansion *Expansion[T]
	guard     *RateLimitGuard
	logger    Logger

	pageSize  int
	start     int
	buffer    []T
	exhausted bool
	expanding bool
	parents   []string
	done      bool
	err       error
	requests  int
}

// NewPaginationIterator creates an iterator over the collection addressed by desc.
func NewPaginationIterator[T any](ctx context.Context, fetcher PageFetcher[T], desc RequestDescriptor, opts ...IteratorOption[T]) *PaginationIterator[T] {
	p := &PaginationIterator[T]{
		ctx:      ctx,
		fetcher:  fetcher,
		current:  desc,
		pageSize: desc.PageSize(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.expansion != nil && p.guard == nil {
		p.guard = NewRateLimitGuard(WithGuardLogger(p.logger))
	}

	return p
}

// HasNext reports whether Next will return an item or an error. It may fetch a page.
func (p *PaginationIterator[T]) HasNext() bool {
	p.fill()

	return len(p.buffer) > 0 || p.err != nil
}

// Next returns the next item. After the last item, or after an error has been returned
// once, it returns ErrNoMoreItems.
func (p *PaginationIterator[T]) Next() (T, error) {
	var zero T

	p.fill()

	if len(p.buffer) == 0 {
		if p.err != nil {
			err := p.err
			p.err = nil

			return zero, err
		}

		return zero, ErrNoMoreItems
	}

	item := p.buffer[0]
	p.buffer = p.buffer[1:]

	if p.expansion != nil && p.expansion.HasChildren(item) {
		p.parents = append(p.parents, p.expansion.ID(item))
	}

	return item, nil
}

// All drains the iterator. On error it returns the items read so far with the error.
func (p *PaginationIterator[T]) All() ([]T, error) {
	var all []T

	for {
		item, err := p.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return all, nil
		}

		if err != nil {
			return all, err
		}

		all = append(all, item)
	}
}

// ForEach calls fn for every item and stops at the first error.
func (p *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for {
		item, err := p.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return nil
		}

		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}
}

// Seq returns the iterator as a range-over-func sequence. A fetch error is yielded once
// as the last element.
func (p *PaginationIterator[T]) Seq() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := p.Next()
			if errors.Is(err, ErrNoMoreItems) {
				return
			}

			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// Requests returns the number of page requests issued so far.
func (p *PaginationIterator[T]) Requests() int {
	return p.requests
}

func (p *PaginationIterator[T]) fill() {
	for len(p.buffer) == 0 && !p.done {
		if !p.exhausted {
			p.fetch()

			continue
		}

		if p.expansion == nil || len(p.parents) == 0 {
			p.done = true

			return
		}

		parentID := p.parents[len(p.parents)-1]
		p.parents = p.parents[:len(p.parents)-1]

		p.current = p.current.ForChild(p.expansion.ChildPath(parentID))
		p.start = 0
		p.exhausted = false
		p.expanding = true
	}
}

func (p *PaginationIterator[T]) fetch() {
	if p.expanding && p.guard != nil {
		err := p.guard.Wait(p.ctx, len(p.parents))
		if err != nil {
			p.fail(err)

			return
		}
	}

	desc := p.current.WithPage(p.start, p.pageSize)

	if p.logger != nil {
		p.logger.Debug("Fetching page", map[string]interface{}{
			"path":  desc.Path(),
			"index": p.start,
			"range": p.pageSize,
		})
	}

	p.requests++

	items, err := p.fetcher.FetchPage(p.ctx, desc)
	if errors.Is(err, ErrEmptyResponse) {
		items, err = nil, nil
	}

	if err != nil {
		p.fail(err)

		return
	}

	p.start += p.pageSize
	p.buffer = append(p.buffer, items...)

	if len(items) < p.pageSize {
		p.exhausted = true
	}
}

func (p *PaginationIterator[T]) fail(err error) {
	p.err = err
	p.exhausted = true
	p.done = true
	p.parents = nil

	if p.logger != nil {
		p.logger.Error("Page fetch failed", map[string]interface{}{
			"path":  p.current.Path(),
			"index": p.start,
			"error": err.Error(),
		})
	}
}
