package ports

import (
	"context"

	"github.com/bookhive/api/internal/core/domain"
)

type LibraryRepository interface {
	Create(ctx context.Context, l *domain.Library) error
	FindByID(ctx context.Context, id uint) (*domain.Library, error)
	List(ctx context.Context, page domain.PageRequest) ([]*domain.Library, int64, error)
	AddBooks(ctx context.Context, libraryID uint, bookIDs []uint) error
	RemoveBook(ctx context.Context, libraryID, bookID uint) error
	SetLibrarian(ctx context.Context, libraryID uint, name string) (*domain.Librarian, error)
	Librarian(ctx context.Context, libraryID uint) (*domain.Librarian, error)
}

type LibraryService interface {
	ListLibraries(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Library], error)
	GetLibrary(ctx context.Context, id uint) (*domain.Library, error)
	CreateLibrary(ctx context.Context, name string) (*domain.Library, error)
	AddBooks(ctx context.Context, libraryID uint, bookIDs []uint) (*domain.Library, error)
	RemoveBook(ctx context.Context, libraryID, bookID uint) (*domain.Library, error)
	AssignLibrarian(ctx context.Context, libraryID uint, name string) (*domain.Librarian, error)
	GetLibrarian(ctx context.Context, libraryID uint) (*domain.Librarian, error)
}
