// Package store holds the client-side collection caches: an ordered list of
// one entity type plus its pagination position, selection singleton, loading
// flag, and error state, with fetch/create/update/delete reconciliation
// against the backend.
//
// Stores are injected where needed rather than kept as package globals, so
// tests run against isolated instances. State changes propagate by return
// value and the read accessors; there is no implicit observation.
package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/paginate"
)

// Entity is anything a collection can hold; identity is the ID string and
// no two elements of a collection share one.
type Entity interface {
	EntityID() string
}

// collection is the generic state shared by the tweet and user stores.
//
// Every operation bumps the request epoch; a fetch whose epoch is stale by
// the time its response arrives discards that response, so overlapping
// fetches settle on the latest-issued request instead of whichever response
// lands last.
type collection[T Entity] struct {
	mu         sync.Mutex
	items      []T
	selected   *T
	loading    bool
	errMsg     string
	pagination paginate.State
	epoch      uint64
	log        *zap.Logger
}

func initCollection[T Entity](c *collection[T], log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	c.log = log
	c.pagination.Reset()
}

// begin starts an operation: loading on, error cleared, epoch bumped.
func (c *collection[T]) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.errMsg = ""
	c.epoch++
	return c.epoch
}

// finish releases the loading flag unless a newer operation owns it.
func (c *collection[T]) finish(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch == c.epoch {
		c.loading = false
	}
}

// fail records the normalized message of err, with a fallback for errors
// that carry none.
func (c *collection[T]) fail(err error, fallback string) {
	message := fallback
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		message = apiErr.Message
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = message
}

// applyPage reconciles a normalized page: page 1 replaces the collection,
// later pages append preserving existing order; the pagination state is
// replaced wholesale. A stale epoch leaves the collection untouched.
// Returns a snapshot of the resulting items and whether the page was applied.
func (c *collection[T]) applyPage(page paginate.Page[T], epoch uint64) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.log.Debug("discarding stale fetch response", zap.Uint64("epoch", epoch))
		return c.snapshot(), false
	}
	if page.Page == 1 {
		c.items = append([]T(nil), page.Items...)
	} else {
		c.items = append(c.items, page.Items...)
	}
	c.pagination = page.State
	return c.snapshot(), true
}

// replaceAll swaps the whole collection without touching pagination.
func (c *collection[T]) replaceAll(items []T, epoch uint64) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return c.snapshot(), false
	}
	c.items = append([]T(nil), items...)
	return c.snapshot(), true
}

// insertFront prepends a newly created item (most-recent-first) and grows
// the known total.
func (c *collection[T]) insertFront(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
	c.pagination.Total++
}

// replaceByID swaps the first element matching id in place; the selection
// follows when it references the same id. A missing id changes nothing.
func (c *collection[T]) replaceByID(id string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].EntityID() == id {
			c.items[i] = item
			break
		}
	}
	if c.selected != nil && (*c.selected).EntityID() == id {
		c.selected = &item
	}
}

// removeByID drops every element matching id, floors the total at zero,
// and clears a matching selection.
func (c *collection[T]) removeByID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, item := range c.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	if c.pagination.Total > 0 {
		c.pagination.Total--
	}
	if c.selected != nil && (*c.selected).EntityID() == id {
		c.selected = nil
	}
}

func (c *collection[T]) snapshot() []T {
	return append([]T(nil), c.items...)
}

// Items returns a snapshot of the collection in order.
func (c *collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Selected returns a copy of the selected item, nil when none.
func (c *collection[T]) Selected() *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	item := *c.selected
	return &item
}

// SetSelected sets the selection singleton.
func (c *collection[T]) SetSelected(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &item
}

// ClearSelected drops the selection singleton.
func (c *collection[T]) ClearSelected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// Loading reports whether an operation is in flight.
func (c *collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the recorded error message, empty when none.
func (c *collection[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ClearError drops the recorded error message.
func (c *collection[T]) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// Pagination returns the current pagination state.
func (c *collection[T]) Pagination() paginate.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Total returns the server-side total of the collection.
func (c *collection[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination.Total
}

// Len returns the number of locally cached items.
func (c *collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Has reports whether the collection holds any items.
func (c *collection[T]) Has() bool {
	return c.Len() > 0
}

// Clear empties the collection and resets pagination, keeping selection and
// error state.
func (c *collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.pagination.Reset()
}

// ResetState restores the store to its initial empty values: items,
// selection, error, loading, and pagination.
func (c *collection[T]) ResetState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.selected = nil
	c.errMsg = ""
	c.loading = false
	c.pagination.Reset()
}

// cursor returns the requested continuation token and current limit.
func (c *collection[T]) cursor(next bool) (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if next {
		return c.pagination.NextToken, c.pagination.Limit
	}
	return c.pagination.PrevToken, c.pagination.Limit
}
