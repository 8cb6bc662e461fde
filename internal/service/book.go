package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aman-churiwal/book-manager/internal/models"
	"github.com/aman-churiwal/book-manager/internal/storage"
	"github.com/aman-churiwal/book-manager/internal/validation"
	"github.com/google/uuid"
)

const cacheTTL = 5 * time.Minute

const listCacheKey = "book:cache:list"

// BookStore is the persistence surface the service needs. The gorm-backed
// repository satisfies it in production; tests supply an in-memory fake.
type BookStore interface {
	Create(ctx context.Context, book *models.Book) error
	CreateBatch(ctx context.Context, books []*models.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type BookService struct {
	store BookStore
	redis *storage.RedisClient
}

// NewBookService wires the service to its store and an optional redis
// cache. A nil redis client disables caching.
func NewBookService(store BookStore, redis *storage.RedisClient) *BookService {
	return &BookService{
		store: store,
		redis: redis,
	}
}

func (s *BookService) Create(ctx context.Context, in *validation.BookInput) (*models.Book, error) {
	book := &models.Book{
		Title:         *in.Title,
		Author:        *in.Author,
		PublishedDate: in.PublishedDate,
		Summary:       in.Summary,
	}
	if in.Price != nil {
		book.Price = *in.Price
	}

	if err := s.store.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.invalidateCache(ctx)
	return book, nil
}

// Get returns (nil, nil) for an unknown id.
func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	cacheKey := itemCacheKey(id)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey); err == nil && cached != "" {
			var book models.Book
			if err := json.Unmarshal([]byte(cached), &book); err == nil {
				return &book, nil
			}
		}
	}

	book, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}

	if s.redis != nil {
		if bookJSON, err := json.Marshal(book); err == nil {
			s.redis.Set(ctx, cacheKey, bookJSON, cacheTTL)
		}
	}

	return book, nil
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, listCacheKey); err == nil && cached != "" {
			var books []models.Book
			if err := json.Unmarshal([]byte(cached), &books); err == nil {
				return books, nil
			}
		}
	}

	books, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if booksJSON, err := json.Marshal(books); err == nil {
			s.redis.Set(ctx, listCacheKey, booksJSON, cacheTTL)
		}
	}

	return books, nil
}

// Update merges the provided fields into the stored book, leaving absent
// fields unchanged. Returns (nil, nil) for an unknown id.
func (s *BookService) Update(ctx context.Context, id uuid.UUID, in *validation.BookInput) (*models.Book, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	updates := make(map[string]interface{})
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Author != nil {
		updates["author"] = *in.Author
	}
	if in.PublishedDate != nil {
		updates["published_date"] = *in.PublishedDate
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Summary != nil {
		updates["summary"] = *in.Summary
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.store.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	s.invalidateCache(ctx, id)

	return s.store.FindByID(ctx, id)
}

// Delete reports whether the book existed.
func (s *BookService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		s.invalidateCache(ctx, id)
	}

	return deleted, nil
}

// BulkCreate persists a batch of validated inputs as a unit.
func (s *BookService) BulkCreate(ctx context.Context, inputs []*validation.BookInput) ([]*models.Book, error) {
	books := make([]*models.Book, 0, len(inputs))
	for _, in := range inputs {
		book := &models.Book{
			Title:         *in.Title,
			Author:        *in.Author,
			PublishedDate: in.PublishedDate,
			Summary:       in.Summary,
		}
		if in.Price != nil {
			book.Price = *in.Price
		}
		books = append(books, book)
	}

	if err := s.store.CreateBatch(ctx, books); err != nil {
		return nil, fmt.Errorf("failed to create books: %w", err)
	}

	s.invalidateCache(ctx)
	return books, nil
}

func (s *BookService) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	deleted, err := s.store.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	s.invalidateCache(ctx, ids...)
	return deleted, nil
}

func itemCacheKey(id uuid.UUID) string {
	return "book:cache:" + id.String()
}

// invalidateCache drops the list entry and any given item entries.
// Cache errors are ignored - the store remains the source of truth.
func (s *BookService) invalidateCache(ctx context.Context, ids ...uuid.UUID) {
	if s.redis == nil {
		return
	}

	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, listCacheKey)
	for _, id := range ids {
		keys = append(keys, itemCacheKey(id))
	}

	s.redis.Del(ctx, keys...)
}
