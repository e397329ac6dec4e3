package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/api/handler"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

var principals = map[string]domain.Principal{
	"member-token":    {UserID: 1, Username: "alice", Role: domain.RoleMember},
	"librarian-token": {UserID: 2, Username: "bob", Role: domain.RoleLibrarian, Permissions: []string{domain.PermAddBook}},
	"staff-token":     {UserID: 3, Username: "root", Role: domain.RoleAdmin, IsStaff: true},
}

// Embedded interfaces leave unexercised methods nil; calling one panics the test.
type routerAuth struct{ ports.AuthService }

func (routerAuth) ParseToken(_ context.Context, token string) (*ports.TokenClaims, error) {
	p, ok := principals[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return &ports.TokenClaims{Principal: p, TokenID: "jti-" + token}, nil
}

type routerCatalog struct{ ports.CatalogService }

func (routerCatalog) ListBooks(_ context.Context, f domain.BookFilter) (*domain.Page[*domain.Book], error) {
	return domain.NewPage([]*domain.Book{{ID: 1, Title: "1984"}}, 1, f.Page)
}

func (routerCatalog) CreateBook(_ context.Context, in ports.BookInput) (*domain.Book, error) {
	return &domain.Book{ID: 9, Title: *in.Title}, nil
}

func (routerCatalog) DeleteBook(context.Context, uint) error { return nil }

func (routerCatalog) CreateAuthor(_ context.Context, name string) (*domain.Author, error) {
	return &domain.Author{ID: 4, Name: name}, nil
}

type routerSocial struct{ ports.SocialService }

func (routerSocial) Feed(_ context.Context, _ domain.Principal, page domain.PageRequest) (*domain.Page[*domain.Post], error) {
	return domain.NewPage[*domain.Post](nil, 0, page)
}

func newTestRouter() *echo.Echo {
	return NewRouter(Services{
		Auth:    routerAuth{},
		Catalog: routerCatalog{},
		Social:  routerSocial{},
		HealthChecks: map[string]handler.DependencyCheck{
			"database": func(context.Context) error { return nil },
		},
	}, Options{
		Paging: handler.Paging{DefaultSize: 10, MaxSize: 100},
		Logger: zerolog.Nop(),
	})
}

func do(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter()

	for _, path := range []string{"/health", "/health/ready"} {
		if rec := do(e, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_Access(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     string
		wantCode int
	}{
		{"public list", http.MethodGet, "/api/books", "", "", http.StatusOK},
		{"bad token on public route", http.MethodGet, "/api/books", "nope", "", http.StatusUnauthorized},
		{"feed needs login", http.MethodGet, "/api/feed", "", "", http.StatusUnauthorized},
		{"feed", http.MethodGet, "/api/feed", "member-token", "", http.StatusOK},
		{"book create needs login", http.MethodPost, "/api/books", "", `{"title":"Dune"}`, http.StatusUnauthorized},
		{"book create alias", http.MethodPost, "/api/books/create", "member-token", `{"title":"Dune"}`, http.StatusCreated},
		{"book delete alias", http.MethodDelete, "/api/books/3/delete", "member-token", "", http.StatusNoContent},
		{"author create by member", http.MethodPost, "/api/authors", "member-token", `{"name":"Frank Herbert"}`, http.StatusForbidden},
		{"author create by staff", http.MethodPost, "/api/authors", "staff-token", `{"name":"Frank Herbert"}`, http.StatusCreated},
		{"permission missing", http.MethodPost, "/api/library/books", "member-token", `{"title":"Dune"}`, http.StatusForbidden},
		{"permission held", http.MethodPost, "/api/library/books", "librarian-token", `{"title":"Dune"}`, http.StatusCreated},
		{"role view wrong role", http.MethodGet, "/api/library/librarian", "member-token", "", http.StatusForbidden},
		{"role view", http.MethodGet, "/api/library/librarian", "librarian-token", "", http.StatusOK},
		{"role view anonymous", http.MethodGet, "/api/library/member", "", "", http.StatusUnauthorized},
		{"invalid page", http.MethodGet, "/api/books?page=abc", "", "", http.StatusNotFound},
	}

	e := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_ErrorBody(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/api/books?page=abc", "", "")

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "invalid page" {
		t.Fatalf("expected %q, got %q", "invalid page", body.Error)
	}
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestRouter()
	do(e, http.MethodGet, "/health", "", "")

	rec := do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "bookhive_") || !strings.Contains(body, "requests_total") {
		t.Fatalf("expected request metrics in output")
	}
}
