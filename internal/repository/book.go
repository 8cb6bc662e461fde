package repository

import (
	"context"

	"github.com/aman-churiwal/book-manager/internal/models"
	"github.com/aman-churiwal/book-manager/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookRepository struct {
	db *storage.Postgres
}

func NewBookRepository(db *storage.Postgres) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.DB.WithContext(ctx).Create(book).Error
}

func (r *BookRepository) CreateBatch(ctx context.Context, books []*models.Book) error {
	if len(books) == 0 {
		return nil
	}

	return r.db.DB.WithContext(ctx).Create(&books).Error
}

// FindByID returns (nil, nil) when no book has the given id.
func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&book).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0)
	err := r.db.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&books).Error

	return books, err
}

func (r *BookRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete reports whether a row was actually removed, so callers can
// distinguish a deleted book from an unknown id.
func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Book{})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *BookRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.Book{})

	return result.RowsAffected, result.Error
}
