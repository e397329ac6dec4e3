package sqldb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhive/api/internal/core/domain"
)

func TestLibraryRepository_Books(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	repo := NewLibraryRepository(db)
	ctx := context.Background()

	lib := &domain.Library{Name: "Central"}
	require.NoError(t, repo.Create(ctx, lib))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Library{Name: "Central"}), domain.ErrDuplicateLibrary)

	achebe, err := NewAuthorRepository(db).FindByID(ctx, f.achebe.ID)
	require.NoError(t, err)
	ids := []uint{achebe.Books[0].ID, achebe.Books[1].ID}

	require.NoError(t, repo.AddBooks(ctx, lib.ID, ids))
	require.NoError(t, repo.AddBooks(ctx, lib.ID, ids[:1]), "re-adding must be a no-op")

	got, err := repo.FindByID(ctx, lib.ID)
	require.NoError(t, err)
	require.Len(t, got.Books, 2)
	assert.Equal(t, "Chinua Achebe", got.Books[0].AuthorName)

	require.NoError(t, repo.RemoveBook(ctx, lib.ID, ids[0]))
	got, err = repo.FindByID(ctx, lib.ID)
	require.NoError(t, err)
	require.Len(t, got.Books, 1)
	assert.Equal(t, ids[1], got.Books[0].ID)
}

func TestLibraryRepository_Librarian(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLibraryRepository(db)
	ctx := context.Background()

	lib := &domain.Library{Name: "Branch"}
	require.NoError(t, repo.Create(ctx, lib))

	_, err := repo.Librarian(ctx, lib.ID)
	assert.ErrorIs(t, err, domain.ErrLibrarianNotFound)

	first, err := repo.SetLibrarian(ctx, lib.ID, "Ada")
	require.NoError(t, err)
	second, err := repo.SetLibrarian(ctx, lib.ID, "Grace")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one librarian per library")
	assert.Equal(t, "Grace", second.Name)

	got, err := repo.FindByID(ctx, lib.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Librarian)
	assert.Equal(t, "Grace", got.Librarian.Name)

	libs, total, err := repo.List(ctx, firstPage())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, libs, 1)
}
