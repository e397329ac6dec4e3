package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

var bookOrderColumns = map[string]string{
	"title":            "books.title",
	"publication_year": "books.publication_year",
	"created_at":       "books.created_at",
	"id":               "books.id",
}

var authorOrderColumns = map[string]string{
	"name":       "authors.name",
	"created_at": "authors.created_at",
	"id":         "authors.id",
}

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository returns a gorm-backed AuthorRepository.
func NewAuthorRepository(db *gorm.DB) ports.AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, a *domain.Author) error {
	model := &AuthorModel{}
	model.FromDomain(a)
	if err := r.db.WithContext(ctx).Omit("Books").Create(model).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	a.ID, a.CreatedAt, a.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *authorRepository) FindByID(ctx context.Context, id uint) (*domain.Author, error) {
	return r.findOne(ctx, "authors.id = ?", id)
}

func (r *authorRepository) FindByName(ctx context.Context, name string) (*domain.Author, error) {
	return r.findOne(ctx, "authors.name = ?", name)
}

func (r *authorRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Author, error) {
	var model AuthorModel
	err := r.db.WithContext(ctx).
		Preload("Books", orderBooks).
		Where(query, args...).
		Order("authors.id").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *authorRepository) Update(ctx context.Context, a *domain.Author) error {
	err := r.db.WithContext(ctx).Model(&AuthorModel{ID: a.ID}).Update("name", a.Name).Error
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return nil
}

// Delete removes the author together with its books and their library links.
func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookIDs := tx.Model(&BookModel{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("book_id IN (?)", bookIDs).Delete(&LibraryBookModel{}).Error; err != nil {
			return fmt.Errorf("unlink author books: %w", err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&BookModel{}).Error; err != nil {
			return fmt.Errorf("delete author books: %w", err)
		}
		if err := tx.Delete(&AuthorModel{}, id).Error; err != nil {
			return fmt.Errorf("delete author: %w", err)
		}
		return nil
	})
}

func (r *authorRepository) List(ctx context.Context, f domain.AuthorFilter) ([]*domain.Author, int64, error) {
	q := r.db.WithContext(ctx).Model(&AuthorModel{})

	if f.Name != "" {
		q = q.Where("authors.name = ?", f.Name)
	}
	if f.NameIContains != "" {
		q = q.Where(ilike("authors.name"), containsPattern(f.NameIContains))
	}
	if f.Search != "" {
		q = q.Where(ilike("authors.name"), containsPattern(f.Search))
	}
	if f.MinBooks > 0 || f.MaxBooks > 0 {
		counted := r.db.Model(&BookModel{}).Select("author_id").Group("author_id")
		switch {
		case f.MinBooks > 0 && f.MaxBooks > 0:
			counted = counted.Having("COUNT(*) >= ? AND COUNT(*) <= ?", f.MinBooks, f.MaxBooks)
		case f.MinBooks > 0:
			counted = counted.Having("COUNT(*) >= ?", f.MinBooks)
		default:
			counted = counted.Having("COUNT(*) <= ?", f.MaxBooks)
		}
		if f.MinBooks > 0 {
			q = q.Where("authors.id IN (?)", counted)
		} else {
			// authors without books have no group but still satisfy an upper bound
			over := r.db.Model(&BookModel{}).Select("author_id").Group("author_id").Having("COUNT(*) > ?", f.MaxBooks)
			q = q.Where("authors.id NOT IN (?)", over)
		}
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	ordering := f.Ordering
	if len(ordering) == 0 {
		ordering = []domain.OrderField{{Field: "name"}}
	}

	var models []AuthorModel
	err := paginate(applyOrdering(q.Preload("Books", orderBooks), ordering, authorOrderColumns, "authors.id"), f.Page).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}

	authors := make([]*domain.Author, 0, len(models))
	for i := range models {
		authors = append(authors, models[i].ToDomain())
	}
	return authors, total, nil
}

func orderBooks(db *gorm.DB) *gorm.DB {
	return db.Order("books.title").Order("books.id")
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository returns a gorm-backed BookRepository.
func NewBookRepository(db *gorm.DB) ports.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	model := &BookModel{}
	model.FromDomain(b)
	if err := r.db.WithContext(ctx).Omit("Author").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateBook
		}
		return fmt.Errorf("create book: %w", err)
	}
	b.ID, b.CreatedAt, b.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var model BookModel
	if err := r.db.WithContext(ctx).Preload("Author").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	err := r.db.WithContext(ctx).Model(&BookModel{ID: b.ID}).Updates(map[string]interface{}{
		"title":            b.Title,
		"publication_year": b.PublicationYear,
		"author_id":        b.AuthorID,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateBook
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&LibraryBookModel{}).Error; err != nil {
			return fmt.Errorf("unlink book: %w", err)
		}
		if err := tx.Delete(&BookModel{}, id).Error; err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		return nil
	})
}

func (r *bookRepository) List(ctx context.Context, f domain.BookFilter) ([]*domain.Book, int64, error) {
	q := r.db.WithContext(ctx).Model(&BookModel{}).
		Joins("JOIN authors ON authors.id = books.author_id")

	if f.PublicationYear != nil {
		q = q.Where("books.publication_year = ?", *f.PublicationYear)
	}
	if f.AuthorID != 0 {
		q = q.Where("books.author_id = ?", f.AuthorID)
	}
	if f.PublicationYearMin != nil {
		q = q.Where("books.publication_year >= ?", *f.PublicationYearMin)
	}
	if f.PublicationYearMax != nil {
		q = q.Where("books.publication_year <= ?", *f.PublicationYearMax)
	}
	if f.Title != "" {
		q = q.Where("books.title = ?", f.Title)
	}
	if f.TitleIContains != "" {
		q = q.Where(ilike("books.title"), containsPattern(f.TitleIContains))
	}
	if f.AuthorNameIContains != "" {
		q = q.Where(ilike("authors.name"), containsPattern(f.AuthorNameIContains))
	}
	if f.AuthorNameExact != "" {
		q = q.Where("authors.name = ?", f.AuthorNameExact)
	}
	if f.PublicationDecade != 0 {
		lo, hi := domain.DecadeRange(f.PublicationDecade)
		q = q.Where("books.publication_year BETWEEN ? AND ?", lo, hi)
	}
	if f.Search != "" {
		p := containsPattern(f.Search)
		q = q.Where("("+ilike("books.title")+" OR "+ilike("authors.name")+")", p, p)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	ordering := f.Ordering
	if len(ordering) == 0 {
		ordering = []domain.OrderField{{Field: "title"}}
	}

	var models []BookModel
	err := paginate(applyOrdering(q.Select("books.*").Preload("Author"), ordering, bookOrderColumns, "books.id"), f.Page).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	books := make([]*domain.Book, 0, len(models))
	for i := range models {
		books = append(books, models[i].ToDomain())
	}
	return books, total, nil
}

func (r *bookRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*domain.Book, error) {
	var models []BookModel
	err := orderBooks(r.db.WithContext(ctx).Preload("Author").Where("books.author_id = ?", authorID)).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list books by author: %w", err)
	}
	books := make([]*domain.Book, 0, len(models))
	for i := range models {
		books = append(books, models[i].ToDomain())
	}
	return books, nil
}
