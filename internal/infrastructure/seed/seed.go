// Package seed loads a small sample catalog into a Postgres database that has
// already been migrated. Every statement is idempotent, so running the seed
// twice leaves the data unchanged.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type AuthorFixture struct {
	Name string
}

type BookFixture struct {
	Title           string
	PublicationYear int
	Author          string
}

type LibraryFixture struct {
	Name      string
	Librarian string
	// Books are referenced by title and author name.
	Books []BookFixture
}

type Fixtures struct {
	Authors   []AuthorFixture
	Books     []BookFixture
	Libraries []LibraryFixture
}

// DefaultFixtures is the sample data loaded by `bookhive seed`.
func DefaultFixtures() Fixtures {
	potter := BookFixture{Title: "Harry Potter", PublicationYear: 1997, Author: "J.K. Rowling"}
	orwell := BookFixture{Title: "1984", PublicationYear: 1949, Author: "George Orwell"}
	farm := BookFixture{Title: "Animal Farm", PublicationYear: 1945, Author: "George Orwell"}
	things := BookFixture{Title: "Things Fall Apart", PublicationYear: 1958, Author: "Chinua Achebe"}

	return Fixtures{
		Authors: []AuthorFixture{
			{Name: "J.K. Rowling"},
			{Name: "George Orwell"},
			{Name: "Chinua Achebe"},
		},
		Books: []BookFixture{potter, orwell, farm, things},
		Libraries: []LibraryFixture{
			{Name: "City Central Library", Librarian: "Alice Johnson", Books: []BookFixture{potter, orwell}},
			{Name: "Riverside Branch", Librarian: "Samuel Okafor", Books: []BookFixture{farm, things}},
		},
	}
}

// Validate reports fixtures that reference authors or books not declared in
// the same set.
func (f Fixtures) Validate() error {
	authors := make(map[string]struct{}, len(f.Authors))
	for _, a := range f.Authors {
		if a.Name == "" {
			return fmt.Errorf("author with empty name")
		}
		authors[a.Name] = struct{}{}
	}
	books := make(map[[2]string]struct{}, len(f.Books))
	for _, b := range f.Books {
		if _, ok := authors[b.Author]; !ok {
			return fmt.Errorf("book %q references unknown author %q", b.Title, b.Author)
		}
		books[[2]string{b.Title, b.Author}] = struct{}{}
	}
	for _, l := range f.Libraries {
		for _, b := range l.Books {
			if _, ok := books[[2]string{b.Title, b.Author}]; !ok {
				return fmt.Errorf("library %q references unknown book %q", l.Name, b.Title)
			}
		}
	}
	return nil
}

const (
	insertAuthor = `INSERT INTO authors (name, created_at, updated_at)
SELECT $1::text, $2::timestamptz, $2::timestamptz
WHERE NOT EXISTS (SELECT 1 FROM authors WHERE name = $1::text)`

	insertBook = `INSERT INTO books (title, publication_year, author_id, created_at, updated_at)
SELECT $1::text, $2::int, a.id, $4::timestamptz, $4::timestamptz
FROM authors a WHERE a.name = $3::text
ORDER BY a.id LIMIT 1
ON CONFLICT (title, author_id) DO NOTHING`

	insertLibrary = `INSERT INTO libraries (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	insertLibraryBook = `INSERT INTO library_books (library_id, book_id)
SELECT l.id, b.id
FROM libraries l, books b JOIN authors a ON a.id = b.author_id
WHERE l.name = $1::text AND b.title = $2::text AND a.name = $3::text
ON CONFLICT DO NOTHING`

	insertLibrarian = `INSERT INTO librarians (name, library_id)
SELECT $1::text, id FROM libraries WHERE name = $2::text
ON CONFLICT (library_id) DO NOTHING`
)

// buildBatch queues the fixture statements in dependency order.
func buildBatch(f Fixtures, now time.Time) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, a := range f.Authors {
		batch.Queue(insertAuthor, a.Name, now)
	}
	for _, b := range f.Books {
		batch.Queue(insertBook, b.Title, b.PublicationYear, b.Author, now)
	}
	for _, l := range f.Libraries {
		batch.Queue(insertLibrary, l.Name)
		for _, b := range l.Books {
			batch.Queue(insertLibraryBook, l.Name, b.Title, b.Author)
		}
		if l.Librarian != "" {
			batch.Queue(insertLibrarian, l.Librarian, l.Name)
		}
	}
	return batch
}

// NewPool opens a small pgx pool for seeding.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse seed dsn: %w", err)
	}
	cfg.MaxConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect seed pool: %w", err)
	}
	return pool, nil
}

type Seeder struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
	now  func() time.Time
}

func NewSeeder(pool *pgxpool.Pool, log zerolog.Logger) *Seeder {
	return &Seeder{pool: pool, log: log, now: time.Now}
}

// Load sends the fixtures in a single batch round trip.
func (s *Seeder) Load(ctx context.Context, f Fixtures) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid fixtures: %w", err)
	}

	batch := buildBatch(f, s.now().UTC())
	pending := batch.Len()
	start := time.Now()

	flush := func() error {
		br := s.pool.SendBatch(ctx, batch)
		for i := 0; i < pending; i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("batch exec: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("batch close: %w", err)
		}
		return nil
	}
	if err := flush(); err != nil {
		return err
	}

	s.log.Info().
		Int("authors", len(f.Authors)).
		Int("books", len(f.Books)).
		Int("libraries", len(f.Libraries)).
		Int("statements", pending).
		Dur("elapsed", time.Since(start)).
		Msg("seed data loaded")
	return nil
}
