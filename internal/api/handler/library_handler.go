package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// LibraryHandler serves libraries, librarians and the role views.
type LibraryHandler struct {
	libraries ports.LibraryService
	catalog   ports.CatalogService
	paging    Paging
}

func NewLibraryHandler(libraries ports.LibraryService, catalog ports.CatalogService, paging Paging) *LibraryHandler {
	return &LibraryHandler{libraries: libraries, catalog: catalog, paging: paging}
}

// ListBooks handles GET /api/library/books: every book with its author name.
//
// @Summary      List all books with author names
// @Tags         library
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[bookResponse]
// @Router       /api/library/books [get]
func (h *LibraryHandler) ListBooks(c echo.Context) error {
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	books, err := h.catalog.ListBooks(c.Request().Context(), domain.BookFilter{
		Ordering: []domain.OrderField{{Field: "title"}},
		Page:     page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(books, toBookResponse))
}

// BooksByAuthor handles GET /api/library/books/by-author?name=.
//
// @Summary      Books by author name
// @Tags         library
// @Produce      json
// @Param        name  query     string  true  "Exact author name"
// @Success      200   {array}   bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/library/books/by-author [get]
func (h *LibraryHandler) BooksByAuthor(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return domain.FieldError("name", "This field is required.")
	}
	books, err := h.catalog.BooksByAuthorName(c.Request().Context(), name)
	if err != nil {
		return err
	}
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return c.JSON(http.StatusOK, out)
}

// ListLibraries handles GET /api/library/libraries.
//
// @Summary      List libraries
// @Tags         library
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  pageResponse[libraryResponse]
// @Router       /api/library/libraries [get]
func (h *LibraryHandler) ListLibraries(c echo.Context) error {
	page, err := h.paging.request(c)
	if err != nil {
		return err
	}
	libs, err := h.libraries.ListLibraries(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(libs, toLibraryResponse))
}

// GetLibrary handles GET /api/library/libraries/:id.
//
// @Summary      Library detail with books and librarian
// @Tags         library
// @Produce      json
// @Param        id   path      int  true  "Library id"
// @Success      200  {object}  libraryResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/library/libraries/{id} [get]
func (h *LibraryHandler) GetLibrary(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	lib, err := h.libraries.GetLibrary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLibraryResponse(lib))
}

// CreateLibrary handles POST /api/library/libraries. Staff only.
//
// @Summary      Create a library
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      libraryRequest  true  "Library"
// @Success      201   {object}  libraryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/library/libraries [post]
func (h *LibraryHandler) CreateLibrary(c echo.Context) error {
	var req libraryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lib, err := h.libraries.CreateLibrary(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toLibraryResponse(lib))
}

// AddBooks handles POST /api/library/libraries/:id/books. Staff only.
//
// @Summary      Attach books to a library
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Library id"
// @Param        body  body      libraryBooksRequest  true  "Book ids"
// @Success      200   {object}  libraryResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/library/libraries/{id}/books [post]
func (h *LibraryHandler) AddBooks(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req libraryBooksRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lib, err := h.libraries.AddBooks(c.Request().Context(), id, req.BookIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLibraryResponse(lib))
}

// RemoveBook handles DELETE /api/library/libraries/:id/books/:book_id. Staff only.
//
// @Summary      Detach a book from a library
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int  true  "Library id"
// @Param        book_id  path      int  true  "Book id"
// @Success      200      {object}  libraryResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/library/libraries/{id}/books/{book_id} [delete]
func (h *LibraryHandler) RemoveBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "book_id")
	if err != nil {
		return err
	}
	lib, err := h.libraries.RemoveBook(c.Request().Context(), id, bookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLibraryResponse(lib))
}

// AssignLibrarian handles PUT /api/library/libraries/:id/librarian. Staff only.
//
// @Summary      Assign or replace the librarian
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Library id"
// @Param        body  body      librarianRequest  true  "Librarian"
// @Success      200   {object}  librarianResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/library/libraries/{id}/librarian [put]
func (h *LibraryHandler) AssignLibrarian(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req librarianRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	l, err := h.libraries.AssignLibrarian(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLibrarianResponse(l))
}

// GetLibrarian handles GET /api/library/libraries/:id/librarian.
//
// @Summary      Get the librarian of a library
// @Tags         library
// @Produce      json
// @Param        id   path      int  true  "Library id"
// @Success      200  {object}  librarianResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/library/libraries/{id}/librarian [get]
func (h *LibraryHandler) GetLibrarian(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	l, err := h.libraries.GetLibrarian(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLibrarianResponse(l))
}

var roleGreetings = map[string]string{
	domain.RoleAdmin:     "Welcome to the admin view.",
	domain.RoleLibrarian: "Welcome to the librarian view.",
	domain.RoleMember:    "Welcome to the member view.",
}

// RoleView returns the landing handler for one role. Access is enforced by
// middleware.RequireRole on the route.
//
// @Summary      Role landing view
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleViewResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/library/admin [get]
// @Router       /api/library/librarian [get]
// @Router       /api/library/member [get]
func (h *LibraryHandler) RoleView(role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, roleViewResponse{Role: role, Message: roleGreetings[role]})
	}
}
