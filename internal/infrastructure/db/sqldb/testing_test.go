package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookhive/api/internal/core/domain"
)

// setupTestDB opens a migrated in-memory SQLite database closed on cleanup.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(TypeSQLite, ":memory:")
	require.NoError(t, err, "Failed to create database connection")
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, AutoMigrate(db), "Failed to migrate schema")
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()

	now := time.Now().UTC()
	u, err := NewUserRepository(db).Create(context.Background(), &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		Role:         domain.RoleMember,
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return u
}

func createTestAuthor(t *testing.T, db *gorm.DB, name string) *domain.Author {
	t.Helper()

	a := &domain.Author{Name: name}
	require.NoError(t, NewAuthorRepository(db).Create(context.Background(), a))
	return a
}

func createTestBook(t *testing.T, db *gorm.DB, title string, year int, authorID uint) *domain.Book {
	t.Helper()

	b := &domain.Book{Title: title, PublicationYear: year, AuthorID: authorID}
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}

func intPtr(i int) *int { return &i }

func firstPage() domain.PageRequest { return domain.PageRequest{Page: 1, Size: 10} }
