// Package paginate turns the heterogeneous list payload shapes the backend
// responds with into one canonical paginated result. The backend is
// unversioned; depending on the endpoint a list arrives as a bare array, a
// keyed envelope ({tweets,total,page,limit}), a generic envelope ({data} or
// {items}), or a cursor-addressed page ({next,prev}). Callers rely on the
// exact fallback order implemented here.
package paginate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Defaults applied when neither the payload nor the request carries
// paging parameters.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params are the paging parameters of the request that produced the
// payload; they back-fill fields the payload omits.
type Params struct {
	Page  int
	Limit int
}

// State is the pagination position of a collection.
type State struct {
	// Total is the number of items known to exist server-side.
	Total int
	// Page is the 1-based page number of the last fetch.
	Page int
	// Limit is the page size of the last fetch.
	Limit int
	// HasMore reports whether another page exists. With page-based paging
	// it is derived from Page*Limit < Total; with cursor-based paging it is
	// tracked from NextToken presence instead.
	HasMore bool
	// NextToken and PrevToken are opaque continuation cursors, empty when
	// the endpoint pages by number.
	NextToken string
	PrevToken string
}

// Reset returns State to its initial values.
func (s *State) Reset() {
	*s = State{Page: DefaultPage, Limit: DefaultLimit}
}

// Page is one normalized page of a collection.
type Page[T any] struct {
	Items []T
	State
}

// envelope is the keyed-object payload shape. The entity-keyed field is
// resolved dynamically, so the raw object is decoded as a field map.
type envelope struct {
	fields map[string]json.RawMessage
}

func (e envelope) raw(key string) (json.RawMessage, bool) {
	v, ok := e.fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

func (e envelope) intField(key string) (int, bool) {
	v, ok := e.raw(key)
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, false
	}
	return n, true
}

func (e envelope) stringField(key string) string {
	v, ok := e.raw(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// Normalize resolves raw into a canonical page of T. entityKey is the
// plural payload field name for the entity ("tweets", "users").
//
// The decision chain, in order:
//  1. a bare array is the whole result: total = len, page/limit from the
//     request (with defaults), no further pages;
//  2. an object whose "data" field is itself an object is a double-wrapped
//     envelope: unwrap once and resolve the inner object;
//  3. otherwise items come from the first present of <entityKey>, "data",
//     "items" (else empty); total/page/limit fall back from payload to
//     request to defaults; HasMore derives from the resolved page*limit <
//     total unless "next"/"prev" cursors are present, in which case it is
//     NextToken presence alone.
func Normalize[T any](raw json.RawMessage, entityKey string, p Params) (Page[T], error) {
	return normalize[T](raw, entityKey, p, false)
}

func normalize[T any](raw json.RawMessage, entityKey string, p Params, unwrapped bool) (Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page[T]{}, fmt.Errorf("paginate: empty payload")
	}

	// Case 1: bare array.
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("paginate: decode array payload: %w", err)
		}
		return Page[T]{
			Items: items,
			State: State{
				Total:   len(items),
				Page:    valueOr(p.Page, DefaultPage),
				Limit:   valueOr(p.Limit, DefaultLimit),
				HasMore: false,
			},
		}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Page[T]{}, fmt.Errorf("paginate: decode payload: %w", err)
	}
	env := envelope{fields: fields}

	// Case 2: double-wrapped envelope; unwrap a single level.
	if !unwrapped {
		if data, ok := env.raw("data"); ok {
			if inner := bytes.TrimSpace(data); len(inner) > 0 && inner[0] == '{' {
				return normalize[T](data, entityKey, p, true)
			}
		}
	}

	// Case 3: keyed object. First present field wins, in declared order.
	items := []T{}
	for _, key := range []string{entityKey, "data", "items"} {
		v, ok := env.raw(key)
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, &items); err != nil {
			return Page[T]{}, fmt.Errorf("paginate: decode %q payload: %w", key, err)
		}
		break
	}

	total, ok := env.intField("total")
	if !ok {
		total = len(items)
	}
	page, ok := env.intField("page")
	if !ok {
		page = valueOr(p.Page, DefaultPage)
	}
	limit, ok := env.intField("limit")
	if !ok {
		limit = valueOr(p.Limit, DefaultLimit)
	}

	next := env.stringField("next")
	prev := env.stringField("prev")

	hasMore := page*limit < total
	if _, cursored := env.raw("next"); cursored {
		hasMore = next != ""
	} else if _, cursored := env.raw("prev"); cursored {
		hasMore = next != ""
	}

	return Page[T]{
		Items: items,
		State: State{
			Total:     total,
			Page:      page,
			Limit:     limit,
			HasMore:   hasMore,
			NextToken: next,
			PrevToken: prev,
		},
	}, nil
}

func valueOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
