package paginate

import (
	"encoding/json"
	"testing"
)

type item struct {
	ID string `json:"id"`
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestNormalize_BareArray(t *testing.T) {
	raw := json.RawMessage(`[{"id":"a"},{"id":"b"},{"id":"c"}]`)

	page, err := Normalize[item](raw, "tweets", Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	if page.Total != 3 {
		t.Errorf("expected total 3, got %d", page.Total)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Errorf("expected page 1 limit 10, got page %d limit %d", page.Page, page.Limit)
	}
	if page.HasMore {
		t.Error("bare array must never report more pages")
	}
}

func TestNormalize_BareArrayDefaults(t *testing.T) {
	page, err := Normalize[item](json.RawMessage(`[]`), "tweets", Params{})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if page.Page != DefaultPage || page.Limit != DefaultLimit {
		t.Errorf("expected defaults %d/%d, got %d/%d", DefaultPage, DefaultLimit, page.Page, page.Limit)
	}
}

func TestNormalize_KeyedEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantHasMore bool
		wantTotal   int
	}{
		{
			name:        "more pages available",
			raw:         `{"tweets":[{"id":"a"}],"total":11,"page":1,"limit":10}`,
			wantHasMore: true,
			wantTotal:   11,
		},
		{
			name:        "exactly one full page",
			raw:         `{"tweets":[{"id":"a"}],"total":10,"page":1,"limit":10}`,
			wantHasMore: false,
			wantTotal:   10,
		},
		{
			name:        "last page",
			raw:         `{"tweets":[{"id":"a"}],"total":15,"page":2,"limit":10}`,
			wantHasMore: false,
			wantTotal:   15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Normalize[item](json.RawMessage(tt.raw), "tweets", Params{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if page.HasMore != tt.wantHasMore {
				t.Errorf("expected hasMore %v, got %v", tt.wantHasMore, page.HasMore)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, page.Total)
			}
		})
	}
}

func TestNormalize_CursorTokensOverrideHasMore(t *testing.T) {
	// A next token means more pages regardless of total/page/limit.
	page, err := Normalize[item](json.RawMessage(`{"items":[],"next":"tok123"}`), "tweets", Params{})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !page.HasMore {
		t.Error("expected hasMore with a next token present")
	}
	if page.NextToken != "tok123" {
		t.Errorf("expected next token tok123, got %q", page.NextToken)
	}

	// A prev token alone means cursor mode without a next page.
	page, err = Normalize[item](json.RawMessage(`{"items":[{"id":"a"}],"total":100,"page":1,"limit":10,"prev":"tok9"}`), "tweets", Params{})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if page.HasMore {
		t.Error("expected no more pages when only a prev token is present")
	}
	if page.PrevToken != "tok9" {
		t.Errorf("expected prev token tok9, got %q", page.PrevToken)
	}
}

func TestNormalize_FieldPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "entity key wins over data and items",
			raw:  `{"tweets":[{"id":"t"}],"data":[{"id":"d"}],"items":[{"id":"i"}]}`,
			want: []string{"t"},
		},
		{
			name: "data array wins over items",
			raw:  `{"data":[{"id":"d"}],"items":[{"id":"i"}]}`,
			want: []string{"d"},
		},
		{
			name: "items as last resort",
			raw:  `{"items":[{"id":"i"}]}`,
			want: []string{"i"},
		},
		{
			name: "no recognized field yields empty",
			raw:  `{"total":5}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Normalize[item](json.RawMessage(tt.raw), "tweets", Params{})
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			got := ids(page.Items)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestNormalize_DoubleWrappedEnvelope(t *testing.T) {
	raw := json.RawMessage(`{"data":{"tweets":[{"id":"a"}],"total":11,"page":1,"limit":10}}`)

	page, err := Normalize[item](raw, "tweets", Params{})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", page.Items)
	}
	if page.Total != 11 || !page.HasMore {
		t.Errorf("inner envelope not resolved: %+v", page.State)
	}
}

func TestNormalize_UnwrapsSingleLevelOnly(t *testing.T) {
	// The inner object's own "data" field is an array, so after one unwrap
	// it resolves as the items fallback, not a second recursion.
	raw := json.RawMessage(`{"data":{"data":[{"id":"x"}]}}`)

	page, err := Normalize[item](raw, "tweets", Params{})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "x" {
		t.Fatalf("unexpected items: %+v", page.Items)
	}
}

func TestNormalize_PayloadFallbacks(t *testing.T) {
	// total falls back to item count, page and limit to the request.
	page, err := Normalize[item](json.RawMessage(`{"tweets":[{"id":"a"},{"id":"b"}]}`), "tweets", Params{Page: 3, Limit: 5})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expected total from item count, got %d", page.Total)
	}
	if page.Page != 3 || page.Limit != 5 {
		t.Errorf("expected request fallbacks 3/5, got %d/%d", page.Page, page.Limit)
	}
}

func TestNormalize_BadPayloads(t *testing.T) {
	for _, raw := range []string{"", "null", `"just a string"`, `{"tweets":"not an array"}`} {
		if _, err := Normalize[item](json.RawMessage(raw), "tweets", Params{}); err == nil {
			t.Errorf("expected error for payload %q", raw)
		}
	}
}
