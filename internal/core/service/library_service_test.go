package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/core/domain"
)

type stubLibraryRepo struct {
	libs       map[uint]*domain.Library
	books      map[uint][]uint
	librarians map[uint]*domain.Librarian
	nextID     uint
}

func newStubLibraryRepo() *stubLibraryRepo {
	return &stubLibraryRepo{
		libs:       make(map[uint]*domain.Library),
		books:      make(map[uint][]uint),
		librarians: make(map[uint]*domain.Librarian),
	}
}

func (r *stubLibraryRepo) Create(_ context.Context, l *domain.Library) error {
	for _, existing := range r.libs {
		if existing.Name == l.Name {
			return domain.ErrDuplicateLibrary
		}
	}
	r.nextID++
	l.ID = r.nextID
	c := *l
	r.libs[l.ID] = &c
	return nil
}

func (r *stubLibraryRepo) FindByID(_ context.Context, id uint) (*domain.Library, error) {
	l, ok := r.libs[id]
	if !ok {
		return nil, domain.ErrLibraryNotFound
	}
	c := *l
	c.Books = nil
	for _, bid := range r.books[id] {
		c.Books = append(c.Books, domain.Book{ID: bid})
	}
	c.Librarian = r.librarians[id]
	return &c, nil
}

func (r *stubLibraryRepo) List(_ context.Context, page domain.PageRequest) ([]*domain.Library, int64, error) {
	var out []*domain.Library
	for id := uint(1); id <= r.nextID; id++ {
		if l, err := r.FindByID(context.Background(), id); err == nil {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubLibraryRepo) AddBooks(_ context.Context, libraryID uint, bookIDs []uint) error {
	for _, id := range bookIDs {
		dup := false
		for _, have := range r.books[libraryID] {
			dup = dup || have == id
		}
		if !dup {
			r.books[libraryID] = append(r.books[libraryID], id)
		}
	}
	return nil
}

func (r *stubLibraryRepo) RemoveBook(_ context.Context, libraryID, bookID uint) error {
	kept := r.books[libraryID][:0]
	for _, id := range r.books[libraryID] {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	r.books[libraryID] = kept
	return nil
}

func (r *stubLibraryRepo) SetLibrarian(_ context.Context, libraryID uint, name string) (*domain.Librarian, error) {
	l := &domain.Librarian{ID: libraryID, Name: name, LibraryID: libraryID}
	r.librarians[libraryID] = l
	return l, nil
}

func (r *stubLibraryRepo) Librarian(_ context.Context, libraryID uint) (*domain.Librarian, error) {
	if l, ok := r.librarians[libraryID]; ok {
		return l, nil
	}
	return nil, domain.ErrLibrarianNotFound
}

func TestLibraryService_CreateAndBooks(t *testing.T) {
	books := newStubBookRepo()
	_ = books.Create(context.Background(), &domain.Book{Title: "Ake", AuthorID: 1})
	_ = books.Create(context.Background(), &domain.Book{Title: "Kongi", AuthorID: 1})
	svc := NewLibraryService(newStubLibraryRepo(), books, zerolog.Nop())
	ctx := context.Background()

	lib, err := svc.CreateLibrary(ctx, " Central ")
	if err != nil || lib.Name != "Central" {
		t.Fatalf("CreateLibrary: %v %+v", err, lib)
	}
	if _, err := svc.CreateLibrary(ctx, "Central"); len(fieldMessages(t, err, "name")) != 1 {
		t.Fatalf("expected duplicate name error, got %v", err)
	}

	lib, err = svc.AddBooks(ctx, lib.ID, []uint{1, 2, 1})
	if err != nil || len(lib.Books) != 2 {
		t.Fatalf("AddBooks: %v %+v", err, lib)
	}
	if _, err := svc.AddBooks(ctx, lib.ID, []uint{7}); len(fieldMessages(t, err, "book_ids")) != 1 {
		t.Fatalf("expected unknown book error, got %v", err)
	}

	lib, err = svc.RemoveBook(ctx, lib.ID, 1)
	if err != nil || len(lib.Books) != 1 || lib.Books[0].ID != 2 {
		t.Fatalf("RemoveBook: %v %+v", err, lib)
	}
}

func TestLibraryService_Librarian(t *testing.T) {
	svc := NewLibraryService(newStubLibraryRepo(), newStubBookRepo(), zerolog.Nop())
	ctx := context.Background()
	lib, _ := svc.CreateLibrary(ctx, "Branch")

	if _, err := svc.GetLibrarian(ctx, lib.ID); !errors.Is(err, domain.ErrLibrarianNotFound) {
		t.Fatalf("expected ErrLibrarianNotFound, got %v", err)
	}
	if _, err := svc.AssignLibrarian(ctx, lib.ID, "Ada"); err != nil {
		t.Fatalf("AssignLibrarian failed: %v", err)
	}
	got, err := svc.GetLibrarian(ctx, lib.ID)
	if err != nil || got.Name != "Ada" || got.LibraryID != lib.ID {
		t.Fatalf("GetLibrarian: %v %+v", err, got)
	}
	if _, err := svc.AssignLibrarian(ctx, 99, "Ada"); !errors.Is(err, domain.ErrLibraryNotFound) {
		t.Fatalf("expected ErrLibraryNotFound, got %v", err)
	}
}

func TestLibraryService_CreateLibrary_NameLengthInCharacters(t *testing.T) {
	svc := NewLibraryService(newStubLibraryRepo(), newStubBookRepo(), zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.CreateLibrary(ctx, strings.Repeat("é", maxLibraryNameLen)); err != nil {
		t.Fatalf("name at the limit should be accepted: %v", err)
	}
	_, err := svc.CreateLibrary(ctx, strings.Repeat("é", maxLibraryNameLen+1))
	if len(fieldMessages(t, err, "name")) != 1 {
		t.Fatalf("expected a name length error, got %v", err)
	}
}
