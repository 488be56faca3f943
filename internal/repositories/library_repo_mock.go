package repositories

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"bookreview/internal/models"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockLibraryRepository is an in-memory implementation of LibraryRepository.
// Books keep their owner as a bare id; reviews carry an embedded author,
// which is how the hosted backend shapes them.
type MockLibraryRepository struct {
	accounts  map[string]*Account
	books     map[string]*models.Book
	reviews   map[string]*models.Review
	bookOrder []string
	revOrder  []string
	mu        sync.RWMutex
}

// NewMockLibraryRepository creates an empty library.
func NewMockLibraryRepository() *MockLibraryRepository {
	return &MockLibraryRepository{
		accounts: make(map[string]*Account),
		books:    make(map[string]*models.Book),
		reviews:  make(map[string]*models.Review),
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// CreateAccount stores a, assigning an id when it has none.
func (r *MockLibraryRepository) CreateAccount(a *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return ErrDuplicateEmail
		}
	}
	if a.ID == "" {
		a.ID = newID()
	}
	stored := *a
	r.accounts[a.ID] = &stored
	return nil
}

// AccountByEmail finds an account by email, case-insensitively.
func (r *MockLibraryRepository) AccountByEmail(email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			found := *a
			return &found, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", email, ErrNotFound)
}

// AccountByID finds an account by id.
func (r *MockLibraryRepository) AccountByID(id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	found := *a
	return &found, nil
}

// ListBooks returns every book in insertion order.
func (r *MockLibraryRepository) ListBooks() ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.bookOrder, func(id string, _ int) models.Book {
		return r.populate(r.books[id])
	}), nil
}

// GetBook returns one book with its reviews.
func (r *MockLibraryRepository) GetBook(id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	book := r.populate(b)
	return &book, nil
}

// CreateBook stores b, assigning an id.
func (r *MockLibraryRepository) CreateBook(b *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		b.ID = newID()
	}
	stored := *b
	stored.Reviews = nil
	r.books[b.ID] = &stored
	r.bookOrder = append(r.bookOrder, b.ID)
	*b = r.populate(&stored)
	return nil
}

// UpdateBook replaces the editable fields of book id.
func (r *MockLibraryRepository) UpdateBook(id string, in models.BookInput) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	b.Title = in.Title
	b.Author = in.Author
	b.Genre = in.Genre
	b.Year = models.Year(in.Year)
	b.Description = in.Description
	b.Image = in.Image
	book := r.populate(b)
	return &book, nil
}

// DeleteBook removes book id and all of its reviews.
func (r *MockLibraryRepository) DeleteBook(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	delete(r.books, id)
	r.bookOrder = lo.Without(r.bookOrder, id)

	for _, rid := range r.revOrder {
		if r.reviews[rid].Book.ID == id {
			delete(r.reviews, rid)
		}
	}
	r.revOrder = lo.Filter(r.revOrder, func(rid string, _ int) bool {
		_, ok := r.reviews[rid]
		return ok
	})
	return nil
}

// GetReview returns one review.
func (r *MockLibraryRepository) GetReview(id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rev, ok := r.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	found := *rev
	return &found, nil
}

// CreateReview stores rev against an existing book.
func (r *MockLibraryRepository) CreateReview(rev *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[rev.Book.ID]; !ok {
		return fmt.Errorf("book %s: %w", rev.Book.ID, ErrNotFound)
	}
	if rev.ID == "" {
		rev.ID = newID()
	}
	stored := *rev
	r.reviews[rev.ID] = &stored
	r.revOrder = append(r.revOrder, rev.ID)
	return nil
}

// UpdateReview replaces rating and comment of review id.
func (r *MockLibraryRepository) UpdateReview(id string, in models.ReviewUpdate) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	rev.Rating = in.Rating
	rev.Comment = in.Comment
	found := *rev
	return &found, nil
}

// DeleteReview removes review id.
func (r *MockLibraryRepository) DeleteReview(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	delete(r.reviews, id)
	r.revOrder = lo.Without(r.revOrder, id)
	return nil
}

// populate copies b and attaches its reviews and rating summary.
// Callers hold the lock.
func (r *MockLibraryRepository) populate(b *models.Book) models.Book {
	book := *b
	book.Reviews = []models.Review{}
	for _, rid := range r.revOrder {
		if rev := r.reviews[rid]; rev.Book.ID == b.ID {
			book.Reviews = append(book.Reviews, *rev)
		}
	}
	book.ReviewsCount = len(book.Reviews)
	book.AverageRating = 0
	if book.ReviewsCount > 0 {
		sum := lo.SumBy(book.Reviews, func(rev models.Review) int { return rev.Rating })
		book.AverageRating = math.Round(float64(sum)/float64(book.ReviewsCount)*10) / 10
	}
	return book
}
