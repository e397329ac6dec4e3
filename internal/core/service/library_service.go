package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

const maxLibraryNameLen = 100

// LibraryService manages libraries, their books and their librarian.
type LibraryService struct {
	libraries ports.LibraryRepository
	books     ports.BookRepository
	log       zerolog.Logger
}

func NewLibraryService(libraries ports.LibraryRepository, books ports.BookRepository, log zerolog.Logger) *LibraryService {
	return &LibraryService{libraries: libraries, books: books, log: log}
}

func (s *LibraryService) ListLibraries(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Library], error) {
	libs, total, err := s.libraries.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(libs, total, page)
}

func (s *LibraryService) GetLibrary(ctx context.Context, id uint) (*domain.Library, error) {
	return s.libraries.FindByID(ctx, id)
}

func (s *LibraryService) CreateLibrary(ctx context.Context, name string) (*domain.Library, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, domain.FieldError("name", "This field may not be blank.")
	case utf8.RuneCountInString(name) > maxLibraryNameLen:
		return nil, domain.FieldError("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxLibraryNameLen))
	}

	lib := &domain.Library{Name: name}
	if err := s.libraries.Create(ctx, lib); err != nil {
		if errors.Is(err, domain.ErrDuplicateLibrary) {
			return nil, domain.FieldError("name", "library with this name already exists.")
		}
		return nil, err
	}
	s.log.Info().Uint("library_id", lib.ID).Str("name", lib.Name).Msg("library created")
	return s.libraries.FindByID(ctx, lib.ID)
}

// AddBooks attaches books to the library. Books already attached are ignored.
func (s *LibraryService) AddBooks(ctx context.Context, libraryID uint, bookIDs []uint) (*domain.Library, error) {
	if len(bookIDs) == 0 {
		return nil, domain.FieldError("book_ids", "This list may not be empty.")
	}
	if _, err := s.libraries.FindByID(ctx, libraryID); err != nil {
		return nil, err
	}

	v := domain.NewValidationError()
	for _, id := range bookIDs {
		if _, err := s.books.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrBookNotFound) {
				v.Add("book_ids", fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, id))
				continue
			}
			return nil, err
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.libraries.AddBooks(ctx, libraryID, bookIDs); err != nil {
		return nil, err
	}
	return s.libraries.FindByID(ctx, libraryID)
}

func (s *LibraryService) RemoveBook(ctx context.Context, libraryID, bookID uint) (*domain.Library, error) {
	if _, err := s.libraries.FindByID(ctx, libraryID); err != nil {
		return nil, err
	}
	if err := s.libraries.RemoveBook(ctx, libraryID, bookID); err != nil {
		return nil, err
	}
	return s.libraries.FindByID(ctx, libraryID)
}

// AssignLibrarian sets the one librarian of a library, replacing any previous one.
func (s *LibraryService) AssignLibrarian(ctx context.Context, libraryID uint, name string) (*domain.Librarian, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.FieldError("name", "This field may not be blank.")
	}
	if _, err := s.libraries.FindByID(ctx, libraryID); err != nil {
		return nil, err
	}
	lib, err := s.libraries.SetLibrarian(ctx, libraryID, name)
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("library_id", libraryID).Str("librarian", name).Msg("librarian assigned")
	return lib, nil
}

func (s *LibraryService) GetLibrarian(ctx context.Context, libraryID uint) (*domain.Librarian, error) {
	if _, err := s.libraries.FindByID(ctx, libraryID); err != nil {
		return nil, err
	}
	return s.libraries.Librarian(ctx, libraryID)
}
