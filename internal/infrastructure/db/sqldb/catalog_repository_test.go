package sqldb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookhive/api/internal/core/domain"
)

type catalogFixture struct {
	achebe, soyinka, emecheta *domain.Author
}

// seedCatalog loads three authors holding 3, 1 and 0 books.
func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()

	f := catalogFixture{
		achebe:   createTestAuthor(t, db, "Chinua Achebe"),
		soyinka:  createTestAuthor(t, db, "Wole Soyinka"),
		emecheta: createTestAuthor(t, db, "Buchi Emecheta"),
	}
	createTestBook(t, db, "Things Fall Apart", 1958, f.achebe.ID)
	createTestBook(t, db, "No Longer at Ease", 1960, f.achebe.ID)
	createTestBook(t, db, "Arrow of God", 1964, f.achebe.ID)
	createTestBook(t, db, "The Interpreters", 1965, f.soyinka.ID)
	return f
}

func bookTitles(books []*domain.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestBookRepository_DuplicateTitlePerAuthor(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	repo := NewBookRepository(db)

	err := repo.Create(context.Background(), &domain.Book{Title: "Arrow of God", PublicationYear: 1964, AuthorID: f.achebe.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicateBook)

	// same title under another author is fine
	err = repo.Create(context.Background(), &domain.Book{Title: "Arrow of God", PublicationYear: 1964, AuthorID: f.soyinka.ID})
	assert.NoError(t, err)
}

func TestBookRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	repo := NewBookRepository(db)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter domain.BookFilter
		want   []string
	}{
		{"default title order", domain.BookFilter{}, []string{"Arrow of God", "No Longer at Ease", "The Interpreters", "Things Fall Apart"}},
		{"exact year", domain.BookFilter{PublicationYear: intPtr(1960)}, []string{"No Longer at Ease"}},
		{"author id", domain.BookFilter{AuthorID: f.soyinka.ID}, []string{"The Interpreters"}},
		{"year range", domain.BookFilter{PublicationYearMin: intPtr(1960), PublicationYearMax: intPtr(1964)}, []string{"Arrow of God", "No Longer at Ease"}},
		{"title exact", domain.BookFilter{Title: "Arrow of God"}, []string{"Arrow of God"}},
		{"title icontains", domain.BookFilter{TitleIContains: "ARROW"}, []string{"Arrow of God"}},
		{"author name icontains", domain.BookFilter{AuthorNameIContains: "soy"}, []string{"The Interpreters"}},
		{"author name exact", domain.BookFilter{AuthorNameExact: "Wole"}, nil},
		{"decade", domain.BookFilter{PublicationDecade: 1950}, []string{"Things Fall Apart"}},
		{"search title or author", domain.BookFilter{Search: "achebe"}, []string{"Arrow of God", "No Longer at Ease", "Things Fall Apart"}},
		{"ordering", domain.BookFilter{Ordering: []domain.OrderField{{Field: "publication_year", Desc: true}}}, []string{"The Interpreters", "Arrow of God", "No Longer at Ease", "Things Fall Apart"}},
		{"like wildcards are literal", domain.BookFilter{TitleIContains: "%"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Page = firstPage()
			books, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)
			if tt.want == nil {
				assert.Empty(t, books)
				return
			}
			assert.Equal(t, tt.want, bookTitles(books))
		})
	}
}

func TestBookRepository_ListPagination(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	books, total, err := NewBookRepository(db).List(context.Background(), domain.BookFilter{Page: domain.PageRequest{Page: 2, Size: 3}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Equal(t, []string{"Things Fall Apart"}, bookTitles(books))
	assert.Equal(t, "Chinua Achebe", books[0].AuthorName)
}

func TestAuthorRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewAuthorRepository(db)
	ctx := context.Background()

	names := func(f domain.AuthorFilter) []string {
		f.Page = firstPage()
		authors, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		require.EqualValues(t, len(authors), total)
		out := make([]string, 0, len(authors))
		for _, a := range authors {
			out = append(out, a.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Buchi Emecheta", "Chinua Achebe", "Wole Soyinka"}, names(domain.AuthorFilter{}))
	assert.Equal(t, []string{"Wole Soyinka"}, names(domain.AuthorFilter{Name: "Wole Soyinka"}))
	assert.Equal(t, []string{"Chinua Achebe"}, names(domain.AuthorFilter{NameIContains: "chinua"}))
	assert.Equal(t, []string{"Chinua Achebe"}, names(domain.AuthorFilter{MinBooks: 2}))
	assert.Equal(t, []string{"Buchi Emecheta", "Wole Soyinka"}, names(domain.AuthorFilter{MaxBooks: 1}))
	assert.Equal(t, []string{"Wole Soyinka"}, names(domain.AuthorFilter{MinBooks: 1, MaxBooks: 1}))
	assert.Equal(t, []string{"Wole Soyinka", "Chinua Achebe", "Buchi Emecheta"}, names(domain.AuthorFilter{Ordering: []domain.OrderField{{Field: "name", Desc: true}}}))
}

func TestAuthorRepository_NestedBooksAndCascade(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	authors := NewAuthorRepository(db)
	books := NewBookRepository(db)
	ctx := context.Background()

	a, err := authors.FindByID(ctx, f.achebe.ID)
	require.NoError(t, err)
	require.Len(t, a.Books, 3)
	assert.Equal(t, "Arrow of God", a.Books[0].Title)

	lib := &domain.Library{Name: "Central"}
	libs := NewLibraryRepository(db)
	require.NoError(t, libs.Create(ctx, lib))
	require.NoError(t, libs.AddBooks(ctx, lib.ID, []uint{a.Books[0].ID}))

	require.NoError(t, authors.Delete(ctx, f.achebe.ID))
	_, err = authors.FindByID(ctx, f.achebe.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorNotFound)

	remaining, total, err := books.List(ctx, domain.BookFilter{Page: firstPage()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"The Interpreters"}, bookTitles(remaining))

	got, err := libs.FindByID(ctx, lib.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Books)
}

func TestBookRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	repo := NewBookRepository(db)
	ctx := context.Background()

	b := createTestBook(t, db, "Kongi's Harvest", 1967, f.soyinka.ID)
	b.PublicationYear = 1965
	require.NoError(t, repo.Update(ctx, b))

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1965, got.PublicationYear)
	assert.Equal(t, "Wole Soyinka", got.AuthorName)

	b.Title = "The Interpreters"
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrDuplicateBook)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}
