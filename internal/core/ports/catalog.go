package ports

import (
	"context"

	"github.com/bookhive/api/internal/core/domain"
)

type AuthorRepository interface {
	Create(ctx context.Context, a *domain.Author) error
	FindByID(ctx context.Context, id uint) (*domain.Author, error)
	FindByName(ctx context.Context, name string) (*domain.Author, error)
	Update(ctx context.Context, a *domain.Author) error
	Delete(ctx context.Context, id uint) error
	// List returns a page of authors with their books preloaded.
	List(ctx context.Context, f domain.AuthorFilter) ([]*domain.Author, int64, error)
}

type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error
	FindByID(ctx context.Context, id uint) (*domain.Book, error)
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f domain.BookFilter) ([]*domain.Book, int64, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*domain.Book, error)
}

// BookInput is the create/update body. Nil pointers are absent fields.
type BookInput struct {
	Title           *string
	PublicationYear *int
	AuthorID        *uint
}

type CatalogService interface {
	ListBooks(ctx context.Context, f domain.BookFilter) (*domain.Page[*domain.Book], error)
	GetBook(ctx context.Context, id uint) (*domain.Book, error)
	CreateBook(ctx context.Context, in BookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, id uint, in BookInput, partial bool) (*domain.Book, error)
	DeleteBook(ctx context.Context, id uint) error

	ListAuthors(ctx context.Context, f domain.AuthorFilter) (*domain.Page[*domain.Author], error)
	GetAuthor(ctx context.Context, id uint) (*domain.Author, error)
	CreateAuthor(ctx context.Context, name string) (*domain.Author, error)
	UpdateAuthor(ctx context.Context, id uint, name string) (*domain.Author, error)
	DeleteAuthor(ctx context.Context, id uint) error
	BooksByAuthorName(ctx context.Context, name string) ([]*domain.Book, error)
}
