// Package sqldb holds the relational store: connection handling, gorm models
// and the repositories for accounts, catalog, library and blog data.
package sqldb

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bookhive/api/internal/core/domain"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open connects to the configured dialect. An empty sqlite DSN opens an
// in-memory database.
func Open(dbType, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch dbType {
	case TypePostgres:
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return db, nil

	case TypeSQLite:
		if dsn == "" {
			dsn = ":memory:"
		}
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
		}
		// one connection: keeps a :memory: database alive and avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// Ping checks the connection, used by the readiness probe.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or updates every table the repositories use.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&LibraryModel{}, "Books", &LibraryBookModel{}); err != nil {
		return fmt.Errorf("setup library_books: %w", err)
	}
	if err := db.SetupJoinTable(&PostModel{}, "Tags", &PostTagModel{}); err != nil {
		return fmt.Errorf("setup post_tags: %w", err)
	}

	err := db.AutoMigrate(
		&UserModel{},
		&PermissionModel{},
		&FollowModel{},
		&AuthorModel{},
		&BookModel{},
		&LibraryModel{},
		&LibraryBookModel{},
		&LibrarianModel{},
		&TagModel{},
		&PostModel{},
		&PostTagModel{},
		&CommentModel{},
		&LikeModel{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// ── query helpers ─────────────────────────────────────────────────────────────

// applyOrdering maps whitelisted field names to columns. A trailing id term
// keeps pagination stable.
func applyOrdering(q *gorm.DB, fields []domain.OrderField, columns map[string]string, idColumn string) *gorm.DB {
	for _, f := range fields {
		col, ok := columns[f.Field]
		if !ok {
			continue
		}
		if f.Desc {
			col += " DESC"
		}
		q = q.Order(col)
	}
	return q.Order(idColumn)
}

func paginate(q *gorm.DB, p domain.PageRequest) *gorm.DB {
	if p.Size <= 0 {
		return q
	}
	return q.Offset(p.Offset()).Limit(p.Size)
}

// containsPattern builds a case-insensitive LIKE operand.
func containsPattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + s + "%"
}

// ilike is the portable case-insensitive contains predicate for column.
func ilike(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}
