package service

import (
	"encoding/json"
	"testing"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "enveloped object",
			raw:  `{"success":true,"data":{"id":"1"}}`,
			want: `{"id":"1"}`,
		},
		{
			name: "enveloped array",
			raw:  `{"data":[1,2]}`,
			want: `[1,2]`,
		},
		{
			name: "bare object passes through",
			raw:  `{"id":"1"}`,
			want: `{"id":"1"}`,
		},
		{
			name: "bare array passes through",
			raw:  `[{"id":"1"}]`,
			want: `[{"id":"1"}]`,
		},
		{
			name:    "null data",
			raw:     `{"success":true,"data":null}`,
			wantErr: true,
		},
		{
			name:    "empty body",
			raw:     ``,
			wantErr: true,
		},
		{
			name:    "null body",
			raw:     `null`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unwrap(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				apiErr, ok := api.AsError(err)
				if !ok || apiErr.Message != "No data received from server" {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unwrap failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	user, err := decode[models.User](json.RawMessage(`{"data":{"id":"u1","username":"alice"}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if user.ID != "u1" || user.Username != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := decode[models.User](json.RawMessage(`{"data":"garbage"}`)); err == nil {
		t.Error("expected error decoding mismatched payload")
	}
}
