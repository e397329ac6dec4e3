package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxAuthorNameLen = 100
	MaxBookTitleLen  = 200
)

type Author struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Books     []Book    `json:"books"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	AuthorID        uint      `json:"author"`
	AuthorName      string    `json:"author_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeAuthorName trims the name and enforces the length rules.
func NormalizeAuthorName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return "", FieldError("name", "Author name must be at least 2 characters long.")
	}
	if utf8.RuneCountInString(name) > MaxAuthorNameLen {
		return "", FieldError("name", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxAuthorNameLen))
	}
	return name, nil
}

// Validate checks the field-level book rules against the given clock.
func (b *Book) Validate(now time.Time) error {
	v := NewValidationError()
	title := strings.TrimSpace(b.Title)
	switch {
	case title == "":
		v.Add("title", "This field may not be blank.")
	case utf8.RuneCountInString(title) > MaxBookTitleLen:
		v.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxBookTitleLen))
	}
	if b.PublicationYear > now.Year() {
		v.Add("publication_year", fmt.Sprintf("Publication year cannot be in the future. Current year is %d.", now.Year()))
	}
	if b.AuthorID == 0 {
		v.Add("author", "This field is required.")
	}
	return v.OrNil()
}

// BookFilter holds the list query for books. Zero values mean "no filter".
type BookFilter struct {
	PublicationYear     *int
	AuthorID            uint
	PublicationYearMin  *int
	PublicationYearMax  *int
	Title               string
	TitleIContains      string
	AuthorNameIContains string
	AuthorNameExact     string
	PublicationDecade   int
	Search              string
	Ordering            []OrderField
	Page                PageRequest
}

// DecadeRange returns the inclusive year bounds of a decade filter.
func DecadeRange(decade int) (int, int) {
	return decade, decade + 9
}

// AuthorFilter holds the list query for authors.
type AuthorFilter struct {
	Name          string
	NameIContains string
	MinBooks      int
	MaxBooks      int
	Search        string
	Ordering      []OrderField
	Page          PageRequest
}
