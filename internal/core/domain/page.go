package domain

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-based page-number request.
type PageRequest struct {
	Page int
	Size int
}

// Normalize applies defaults and caps.
func (p PageRequest) Normalize(defaultSize, maxSize int) PageRequest {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPage builds a Page and rejects pages past the end, except page 1 of an
// empty result.
func NewPage[T any](items []T, total int64, req PageRequest) (*Page[T], error) {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if req.Page > 1 && req.Page > totalPages {
		return nil, ErrInvalidPage
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Size,
		TotalPages: totalPages,
	}, nil
}

// OrderField is one term of an ordering clause.
type OrderField struct {
	Field string
	Desc  bool
}

// ParseOrdering parses "a,-b" keeping only fields in allowed. Unknown fields
// are dropped; the fallback is used when nothing survives.
func ParseOrdering(raw string, allowed map[string]bool, fallback ...OrderField) []OrderField {
	var out []OrderField
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		f := OrderField{Field: term}
		if strings.HasPrefix(term, "-") {
			f = OrderField{Field: term[1:], Desc: true}
		}
		if allowed[f.Field] {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
