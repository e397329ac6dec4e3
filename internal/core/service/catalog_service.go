package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/api/metrics"
	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

// CatalogService implements the author/book use cases.
type CatalogService struct {
	authors ports.AuthorRepository
	books   ports.BookRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewCatalogService(authors ports.AuthorRepository, books ports.BookRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{authors: authors, books: books, log: log, now: time.Now}
}

func (s *CatalogService) ListBooks(ctx context.Context, f domain.BookFilter) (*domain.Page[*domain.Book], error) {
	books, total, err := s.books.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(books, total, f.Page)
}

func (s *CatalogService) GetBook(ctx context.Context, id uint) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *CatalogService) CreateBook(ctx context.Context, in ports.BookInput) (*domain.Book, error) {
	v := domain.NewValidationError()
	if in.Title == nil {
		v.Add("title", "This field is required.")
	}
	if in.PublicationYear == nil {
		v.Add("publication_year", "This field is required.")
	}
	if in.AuthorID == nil {
		v.Add("author", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:           strings.TrimSpace(*in.Title),
		PublicationYear: *in.PublicationYear,
		AuthorID:        *in.AuthorID,
	}
	if err := s.checkBook(ctx, book); err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, uniqueBookError(err)
	}

	metrics.BooksCreatedTotal.Inc()
	s.log.Info().Uint("book_id", book.ID).Str("title", book.Title).Msg("book created")
	return book, nil
}

func (s *CatalogService) UpdateBook(ctx context.Context, id uint, in ports.BookInput, partial bool) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !partial {
		v := domain.NewValidationError()
		if in.Title == nil {
			v.Add("title", "This field is required.")
		}
		if in.PublicationYear == nil {
			v.Add("publication_year", "This field is required.")
		}
		if in.AuthorID == nil {
			v.Add("author", "This field is required.")
		}
		if err := v.OrNil(); err != nil {
			return nil, err
		}
	}

	if in.Title != nil {
		book.Title = strings.TrimSpace(*in.Title)
	}
	if in.PublicationYear != nil {
		book.PublicationYear = *in.PublicationYear
	}
	if in.AuthorID != nil {
		book.AuthorID = *in.AuthorID
	}
	if err := s.checkBook(ctx, book); err != nil {
		return nil, err
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, uniqueBookError(err)
	}
	return s.books.FindByID(ctx, id)
}

func (s *CatalogService) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.books.FindByID(ctx, id); err != nil {
		return err
	}
	return s.books.Delete(ctx, id)
}

func (s *CatalogService) ListAuthors(ctx context.Context, f domain.AuthorFilter) (*domain.Page[*domain.Author], error) {
	authors, total, err := s.authors.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(authors, total, f.Page)
}

func (s *CatalogService) GetAuthor(ctx context.Context, id uint) (*domain.Author, error) {
	return s.authors.FindByID(ctx, id)
}

func (s *CatalogService) CreateAuthor(ctx context.Context, name string) (*domain.Author, error) {
	name, err := domain.NormalizeAuthorName(name)
	if err != nil {
		return nil, err
	}
	author := &domain.Author{Name: name}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}
	s.log.Info().Uint("author_id", author.ID).Str("name", author.Name).Msg("author created")
	return s.authors.FindByID(ctx, author.ID)
}

func (s *CatalogService) UpdateAuthor(ctx context.Context, id uint, name string) (*domain.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if author.Name, err = domain.NormalizeAuthorName(name); err != nil {
		return nil, err
	}
	if err := s.authors.Update(ctx, author); err != nil {
		return nil, err
	}
	return s.authors.FindByID(ctx, id)
}

// DeleteAuthor removes the author and, by cascade, its books.
func (s *CatalogService) DeleteAuthor(ctx context.Context, id uint) error {
	if _, err := s.authors.FindByID(ctx, id); err != nil {
		return err
	}
	return s.authors.Delete(ctx, id)
}

func (s *CatalogService) BooksByAuthorName(ctx context.Context, name string) ([]*domain.Book, error) {
	author, err := s.authors.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return s.books.ListByAuthor(ctx, author.ID)
}

// checkBook runs field validation and resolves the author reference.
func (s *CatalogService) checkBook(ctx context.Context, b *domain.Book) error {
	if err := b.Validate(s.now()); err != nil {
		return err
	}
	if _, err := s.authors.FindByID(ctx, b.AuthorID); err != nil {
		if errors.Is(err, domain.ErrAuthorNotFound) {
			return domain.FieldError("author", fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, b.AuthorID))
		}
		return err
	}
	return nil
}

func uniqueBookError(err error) error {
	if errors.Is(err, domain.ErrDuplicateBook) {
		return domain.FieldError("non_field_errors", "The fields title, author must make a unique set.")
	}
	return err
}
