package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aman-churiwal/book-manager/internal/models"
	"github.com/aman-churiwal/book-manager/internal/validation"
	"github.com/google/uuid"
)

// In-memory BookStore for tests. Mimics the repository contract:
// ids assigned on create, (nil, nil) for unknown ids.
type fakeStore struct {
	mu    sync.Mutex
	books map[uuid.UUID]models.Book
	order []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{books: make(map[uuid.UUID]models.Book)}
}

func (f *fakeStore) Create(ctx context.Context, book *models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	f.books[book.ID] = *book
	f.order = append(f.order, book.ID)
	return nil
}

func (f *fakeStore) CreateBatch(ctx context.Context, books []*models.Book) error {
	for _, book := range books {
		if err := f.Create(ctx, book); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return nil, nil
	}
	return &book, nil
}

func (f *fakeStore) List(ctx context.Context) ([]models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	books := make([]models.Book, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if book, ok := f.books[f.order[i]]; ok {
			books = append(books, book)
		}
	}
	return books, nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return nil
	}

	for field, value := range updates {
		switch field {
		case "title":
			book.Title = value.(string)
		case "author":
			book.Author = value.(string)
		case "published_date":
			s := value.(string)
			book.PublishedDate = &s
		case "price":
			book.Price = value.(float64)
		case "summary":
			s := value.(string)
			book.Summary = &s
		}
	}
	book.UpdatedAt = time.Now().UTC()

	f.books[id] = book
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.books[id]; !ok {
		return false, nil
	}
	delete(f.books, id)
	return true, nil
}

func (f *fakeStore) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := f.books[id]; ok {
			delete(f.books, id)
			deleted++
		}
	}
	return deleted, nil
}

func strPtr(s string) *string   { return &s }
func numPtr(n float64) *float64 { return &n }

func TestBookService_CreateAssignsIDAndDefaults(t *testing.T) {
	svc := NewBookService(newFakeStore(), nil)

	book, err := svc.Create(context.Background(), &validation.BookInput{
		Title:  strPtr("Dune"),
		Author: strPtr("Herbert"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if book.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
	if book.Title != "Dune" || book.Author != "Herbert" {
		t.Fatalf("unexpected fields: %+v", book)
	}
	if book.Price != 0 {
		t.Fatalf("expected price to default to 0, got %v", book.Price)
	}
	if book.PublishedDate != nil {
		t.Fatal("expected published_date to stay nil")
	}
}

func TestBookService_CreateThenGetRoundTrip(t *testing.T) {
	svc := NewBookService(newFakeStore(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, &validation.BookInput{
		Title:         strPtr("Dune"),
		Author:        strPtr("Herbert"),
		PublishedDate: strPtr("1965-08-01"),
		Price:         numPtr(15.5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected created book to be found")
	}

	if fetched.Title != created.Title || fetched.Author != created.Author {
		t.Fatalf("round trip changed fields: %+v vs %+v", fetched, created)
	}
	if *fetched.PublishedDate != "1965-08-01" || fetched.Price != 15.5 {
		t.Fatalf("round trip changed fields: %+v", fetched)
	}
}

func TestBookService_GetUnknownID(t *testing.T) {
	svc := NewBookService(newFakeStore(), nil)

	book, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book != nil {
		t.Fatal("expected nil for unknown id")
	}
}

func TestBookService_UpdatePartialLeavesOtherFieldsUnchanged(t *testing.T) {
	svc := NewBookService(newFakeStore(), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, &validation.BookInput{
		Title:  strPtr("Dune"),
		Author: strPtr("Herbert"),
	})

	updated, err := svc.Update(ctx, created.ID, &validation.BookInput{
		Price: numPtr(15.5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated book")
	}

	if updated.Price != 15.5 {
		t.Fatalf("expected price 15.5, got %v", updated.Price)
	}
	if updated.Title != "Dune" || updated.Author != "Herbert" {
		t.Fatalf("partial update changed unspecified fields: %+v", updated)
	}
}

func TestBookService_UpdateUnknownIDIsNotACreate(t *testing.T) {
	store := newFakeStore()
	svc := NewBookService(store, nil)

	book, err := svc.Update(context.Background(), uuid.New(), &validation.BookInput{
		Title: strPtr("Ghost"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book != nil {
		t.Fatal("expected nil for unknown id")
	}

	books, _ := store.List(context.Background())
	if len(books) != 0 {
		t.Fatalf("update of unknown id created a book: %+v", books)
	}
}

func TestBookService_UpdateWithNoFieldsIsNoOp(t *testing.T) {
	svc := NewBookService(newFakeStore(), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, &validation.BookInput{
		Title:  strPtr("Dune"),
		Author: strPtr("Herbert"),
	})

	updated, err := svc.Update(ctx, created.ID, &validation.BookInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Dune" {
		t.Fatalf("no-op update changed the book: %+v", updated)
	}
}

func TestBookService_DeleteThenDeleteAgain(t *testing.T) {
	svc := NewBookService(newFakeStore(), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, &validation.BookInput{
		Title:  strPtr("Dune"),
		Author: strPtr("Herbert"),
	})

	deleted, err := svc.Delete(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("expected successful delete, got deleted=%v err=%v", deleted, err)
	}

	deleted, err = svc.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report not found")
	}
}

func TestBookService_BulkCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewBookService(store, nil)

	books, err := svc.BulkCreate(context.Background(), []*validation.BookInput{
		{Title: strPtr("Dune"), Author: strPtr("Herbert")},
		{Title: strPtr("Foundation"), Author: strPtr("Asimov"), Price: numPtr(9.99)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	for _, book := range books {
		if book.ID == uuid.Nil {
			t.Fatal("expected assigned ids")
		}
	}

	stored, _ := store.List(context.Background())
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored books, got %d", len(stored))
	}
}

func TestBookService_BulkDeleteCountsOnlyExisting(t *testing.T) {
	svc := NewBookService(newFakeStore(), nil)
	ctx := context.Background()

	a, _ := svc.Create(ctx, &validation.BookInput{Title: strPtr("A"), Author: strPtr("X")})
	b, _ := svc.Create(ctx, &validation.BookInput{Title: strPtr("B"), Author: strPtr("Y")})

	deleted, err := svc.BulkDelete(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deletions, got %d", deleted)
	}
}
