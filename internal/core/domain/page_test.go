package domain

import (
	"errors"
	"testing"
)

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"defaults", PageRequest{}, PageRequest{Page: 1, Size: 10}},
		{"kept", PageRequest{Page: 3, Size: 25}, PageRequest{Page: 3, Size: 25}},
		{"capped", PageRequest{Page: 1, Size: 500}, PageRequest{Page: 1, Size: 100}},
		{"negative page", PageRequest{Page: -2, Size: 5}, PageRequest{Page: 1, Size: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(10, 100); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}

	if got := (PageRequest{}).Normalize(0, 0); got.Size != DefaultPageSize {
		t.Fatalf("zero defaults should fall back to %d, got %d", DefaultPageSize, got.Size)
	}
	if off := (PageRequest{Page: 3, Size: 10}).Offset(); off != 20 {
		t.Fatalf("expected offset 20, got %d", off)
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		req       PageRequest
		wantPages int
		wantErr   bool
	}{
		{"empty first page", 0, PageRequest{Page: 1, Size: 10}, 0, false},
		{"exact fit", 20, PageRequest{Page: 2, Size: 10}, 2, false},
		{"partial last page", 21, PageRequest{Page: 3, Size: 10}, 3, false},
		{"past the end", 20, PageRequest{Page: 3, Size: 10}, 0, true},
		{"second page of nothing", 0, PageRequest{Page: 2, Size: 10}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPage[int](nil, tt.total, tt.req)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPage) {
					t.Fatalf("expected ErrInvalidPage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.TotalPages != tt.wantPages || p.Page != tt.req.Page || p.Limit != tt.req.Size {
				t.Fatalf("unexpected page: %+v", p)
			}
			if p.Items == nil {
				t.Fatal("items must never be nil")
			}
		})
	}
}

func TestParseOrdering(t *testing.T) {
	allowed := map[string]bool{"title": true, "publication_year": true}
	fallback := OrderField{Field: "title"}

	tests := []struct {
		name string
		raw  string
		want []OrderField
	}{
		{"empty uses fallback", "", []OrderField{fallback}},
		{"descending", "-publication_year", []OrderField{{Field: "publication_year", Desc: true}}},
		{"several", "publication_year, -title", []OrderField{{Field: "publication_year"}, {Field: "title", Desc: true}}},
		{"unknown dropped", "author,title", []OrderField{{Field: "title"}}},
		{"only unknown", "-author", []OrderField{fallback}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOrdering(tt.raw, allowed, fallback)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %+v, got %+v", tt.want, got)
				}
			}
		})
	}
}
