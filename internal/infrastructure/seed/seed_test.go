package seed

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultFixturesAreConsistent(t *testing.T) {
	if err := DefaultFixtures().Validate(); err != nil {
		t.Fatalf("default fixtures invalid: %v", err)
	}
}

func TestValidateRejectsDanglingReferences(t *testing.T) {
	tests := []struct {
		name string
		fx   Fixtures
		want string
	}{
		{
			name: "unknown author",
			fx: Fixtures{
				Books: []BookFixture{{Title: "Dune", PublicationYear: 1965, Author: "Frank Herbert"}},
			},
			want: "unknown author",
		},
		{
			name: "unknown library book",
			fx: Fixtures{
				Authors:   []AuthorFixture{{Name: "Frank Herbert"}},
				Libraries: []LibraryFixture{{Name: "East", Books: []BookFixture{{Title: "Dune", Author: "Frank Herbert"}}}},
			},
			want: "unknown book",
		},
		{
			name: "empty author name",
			fx:   Fixtures{Authors: []AuthorFixture{{}}},
			want: "empty name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fx.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildBatchQueuesEveryStatement(t *testing.T) {
	fx := DefaultFixtures()
	batch := buildBatch(fx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	want := len(fx.Authors) + len(fx.Books)
	for _, l := range fx.Libraries {
		want += 1 + len(l.Books)
		if l.Librarian != "" {
			want++
		}
	}
	if batch.Len() != want {
		t.Fatalf("expected %d queued statements, got %d", want, batch.Len())
	}

	// authors must be inserted before the books that reference them
	if batch.QueuedQueries[0].SQL != insertAuthor {
		t.Fatalf("first statement should insert an author, got %q", batch.QueuedQueries[0].SQL)
	}
	last := batch.QueuedQueries[batch.Len()-1]
	if last.SQL != insertLibrarian {
		t.Fatalf("last statement should insert a librarian, got %q", last.SQL)
	}
}
