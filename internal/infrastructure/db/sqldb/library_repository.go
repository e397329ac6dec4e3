package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhive/api/internal/core/domain"
	"github.com/bookhive/api/internal/core/ports"
)

type libraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository returns a gorm-backed LibraryRepository.
func NewLibraryRepository(db *gorm.DB) ports.LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) Create(ctx context.Context, l *domain.Library) error {
	model := &LibraryModel{Name: l.Name}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateLibrary
		}
		return fmt.Errorf("create library: %w", err)
	}
	l.ID = model.ID
	return nil
}

func (r *libraryRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Books", orderBooks).
		Preload("Books.Author").
		Preload("Librarian")
}

func (r *libraryRepository) FindByID(ctx context.Context, id uint) (*domain.Library, error) {
	return r.findOne(ctx, "libraries.id = ?", id)
}

func (r *libraryRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Library, error) {
	var model LibraryModel
	if err := r.withRelations(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLibraryNotFound
		}
		return nil, fmt.Errorf("find library: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *libraryRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.Library, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&LibraryModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count libraries: %w", err)
	}

	var models []LibraryModel
	if err := paginate(r.withRelations(ctx).Order("libraries.name").Order("libraries.id"), page).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list libraries: %w", err)
	}

	libs := make([]*domain.Library, 0, len(models))
	for i := range models {
		libs = append(libs, models[i].ToDomain())
	}
	return libs, total, nil
}

// AddBooks inserts the join rows; rows that already exist are left alone.
func (r *libraryRepository) AddBooks(ctx context.Context, libraryID uint, bookIDs []uint) error {
	rows := make([]LibraryBookModel, 0, len(bookIDs))
	for _, id := range bookIDs {
		rows = append(rows, LibraryBookModel{LibraryID: libraryID, BookID: id})
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("add library books: %w", err)
	}
	return nil
}

func (r *libraryRepository) RemoveBook(ctx context.Context, libraryID, bookID uint) error {
	err := r.db.WithContext(ctx).
		Where("library_id = ? AND book_id = ?", libraryID, bookID).
		Delete(&LibraryBookModel{}).Error
	if err != nil {
		return fmt.Errorf("remove library book: %w", err)
	}
	return nil
}

// SetLibrarian creates the library's librarian or renames the existing one.
func (r *libraryRepository) SetLibrarian(ctx context.Context, libraryID uint, name string) (*domain.Librarian, error) {
	model := &LibrarianModel{LibraryID: libraryID, Name: name}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "library_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("set librarian: %w", err)
	}
	return r.Librarian(ctx, libraryID)
}

func (r *libraryRepository) Librarian(ctx context.Context, libraryID uint) (*domain.Librarian, error) {
	var model LibrarianModel
	if err := r.db.WithContext(ctx).Where("library_id = ?", libraryID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLibrarianNotFound
		}
		return nil, fmt.Errorf("find librarian: %w", err)
	}
	return model.ToDomain(), nil
}
