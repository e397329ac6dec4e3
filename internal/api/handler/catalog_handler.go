package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

var (
	bookOrderFields   = map[string]bool{"title": true, "publication_year": true, "created_at": true, "id": true}
	authorOrderFields = map[string]bool{"name": true, "created_at": true, "id": true}
)

// CatalogHandler serves the author and book endpoints.
type CatalogHandler struct {
	service ports.CatalogService
	paging  Paging
}

func NewCatalogHandler(service ports.CatalogService, paging Paging) *CatalogHandler {
	return &CatalogHandler{service: service, paging: paging}
}

func (h *CatalogHandler) bookFilter(c echo.Context) (domain.BookFilter, error) {
	q := newQueryParser(c)
	f := domain.BookFilter{
		PublicationYear:    q.intPtr("publication_year"),
		AuthorID:           q.uint("author"),
		PublicationYearMin: q.intPtr("publication_year_min"),
		PublicationYearMax: q.intPtr("publication_year_max"),
		Title:              q.str("title"),
		TitleIContains:     q.str("title_icontains"),
		AuthorNameExact:    q.str("author_name_exact"),
		PublicationDecade:  q.int("publication_decade"),
		Search:             q.str("search"),
		Ordering:           domain.ParseOrdering(q.str("ordering"), bookOrderFields, domain.OrderField{Field: "title"}),
	}
	f.AuthorNameIContains = q.str("author_name_icontains")
	if f.AuthorNameIContains == "" {
		f.AuthorNameIContains = q.str("author_name")
	}
	if err := q.err(); err != nil {
		return f, err
	}

	page, err := h.paging.request(c)
	if err != nil {
		return f, err
	}
	f.Page = page
	return f, nil
}

func (h *CatalogHandler) authorFilter(c echo.Context) (domain.AuthorFilter, error) {
	q := newQueryParser(c)
	f := domain.AuthorFilter{
		Name:          q.str("name"),
		NameIContains: q.str("name_icontains"),
		MinBooks:      q.int("min_books"),
		MaxBooks:      q.int("max_books"),
		Search:        q.str("search"),
		Ordering:      domain.ParseOrdering(q.str("ordering"), authorOrderFields, domain.OrderField{Field: "name"}),
	}
	if err := q.err(); err != nil {
		return f, err
	}

	page, err := h.paging.request(c)
	if err != nil {
		return f, err
	}
	f.Page = page
	return f, nil
}

// ListBooks handles GET /api/books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        publication_year       query  int     false  "Exact publication year"
// @Param        author                 query  int     false  "Author id"
// @Param        publication_year_min   query  int     false  "Minimum publication year"
// @Param        publication_year_max   query  int     false  "Maximum publication year"
// @Param        title                  query  string  false  "Exact title"
// @Param        title_icontains        query  string  false  "Title contains (case-insensitive)"
// @Param        author_name            query  string  false  "Author name contains"
// @Param        author_name_exact      query  string  false  "Exact author name"
// @Param        publication_decade     query  int     false  "Decade start, e.g. 1990"
// @Param        search                 query  string  false  "Search title and author name"
// @Param        ordering               query  string  false  "e.g. -publication_year,title"
// @Param        page                   query  int     false  "Page number"
// @Param        page_size              query  int     false  "Page size"
// @Success      200  {object}  pageResponse[bookResponse]
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/books [get]
func (h *CatalogHandler) ListBooks(c echo.Context) error {
	f, err := h.bookFilter(c)
	if err != nil {
		return err
	}
	books, err := h.service.ListBooks(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(books, toBookResponse))
}

// GetBook handles GET /api/books/:id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/books/{id} [get]
func (h *CatalogHandler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.service.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// CreateBook handles POST /api/books.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/books [post]
func (h *CatalogHandler) CreateBook(c echo.Context) error {
	var req bookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.service.CreateBook(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// UpdateBook handles PUT and PATCH /api/books/:id; PATCH is partial.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Book id"
// @Param        body  body      bookRequest  true  "Book"
// @Success      200   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/books/{id} [put]
func (h *CatalogHandler) UpdateBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req bookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	partial := c.Request().Method == http.MethodPatch
	book, err := h.service.UpdateBook(c.Request().Context(), id, req.input(), partial)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// DeleteBook handles DELETE /api/books/:id.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  int  true  "Book id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/books/{id} [delete]
func (h *CatalogHandler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r bookRequest) input() ports.BookInput {
	return ports.BookInput{Title: r.Title, PublicationYear: r.PublicationYear, AuthorID: r.Author}
}

// ListAuthors handles GET /api/authors.
//
// @Summary      List authors with their books
// @Tags         authors
// @Produce      json
// @Param        name            query  string  false  "Exact name"
// @Param        name_icontains  query  string  false  "Name contains"
// @Param        min_books       query  int     false  "At least this many books"
// @Param        max_books       query  int     false  "At most this many books"
// @Param        search          query  string  false  "Search name"
// @Param        ordering        query  string  false  "e.g. -created_at"
// @Param        page            query  int     false  "Page number"
// @Param        page_size       query  int     false  "Page size"
// @Success      200  {object}  pageResponse[authorResponse]
// @Failure      400  {object}  errorResponse
// @Router       /api/authors [get]
func (h *CatalogHandler) ListAuthors(c echo.Context) error {
	f, err := h.authorFilter(c)
	if err != nil {
		return err
	}
	authors, err := h.service.ListAuthors(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(authors, toAuthorResponse))
}

// GetAuthor handles GET /api/authors/:id.
//
// @Summary      Get an author with nested books
// @Tags         authors
// @Produce      json
// @Param        id   path      int  true  "Author id"
// @Success      200  {object}  authorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/authors/{id} [get]
func (h *CatalogHandler) GetAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	author, err := h.service.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorResponse(author))
}

// CreateAuthor handles POST /api/authors. Staff only.
//
// @Summary      Create an author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      authorRequest  true  "Author"
// @Success      201   {object}  authorResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/authors [post]
func (h *CatalogHandler) CreateAuthor(c echo.Context) error {
	var req authorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.service.CreateAuthor(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAuthorResponse(author))
}

// UpdateAuthor handles PUT and PATCH /api/authors/:id. Staff only.
//
// @Summary      Rename an author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Author id"
// @Param        body  body      authorRequest  true  "Author"
// @Success      200   {object}  authorResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/authors/{id} [put]
func (h *CatalogHandler) UpdateAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req authorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.service.UpdateAuthor(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorResponse(author))
}

// DeleteAuthor handles DELETE /api/authors/:id; the author's books go too.
//
// @Summary      Delete an author and their books
// @Tags         authors
// @Security     BearerAuth
// @Param        id  path  int  true  "Author id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/authors/{id} [delete]
func (h *CatalogHandler) DeleteAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteAuthor(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
