package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/domain"
)

// Paging holds the page-size defaults applied to every list endpoint.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// request reads ?page and ?page_size. A page that is not a positive integer
// is a 404; a bad page_size falls back to the default.
func (p Paging) request(c echo.Context) (domain.PageRequest, error) {
	req := domain.PageRequest{Page: 1}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return domain.PageRequest{}, domain.ErrInvalidPage
		}
		req.Page = n
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			req.Size = n
		}
	}
	return req.Normalize(p.DefaultSize, p.MaxSize), nil
}

// queryParser accumulates per-parameter errors while reading filters.
type queryParser struct {
	c    echo.Context
	errs *domain.ValidationError
}

func newQueryParser(c echo.Context) *queryParser {
	return &queryParser{c: c, errs: domain.NewValidationError()}
}

func (q *queryParser) str(name string) string {
	return strings.TrimSpace(q.c.QueryParam(name))
}

func (q *queryParser) intPtr(name string) *int {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.errs.Add(name, "Enter a number.")
		return nil
	}
	return &n
}

// int treats absent and zero the same.
func (q *queryParser) int(name string) int {
	if p := q.intPtr(name); p != nil {
		return *p
	}
	return 0
}

func (q *queryParser) uint(name string) uint {
	raw := q.str(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		q.errs.Add(name, "Select a valid choice. That choice is not one of the available choices.")
		return 0
	}
	return uint(n)
}

func (q *queryParser) err() error {
	return q.errs.OrNil()
}
