package repositories

import (
	"errors"

	"bookreview/internal/models"
)

var (
	// ErrNotFound is returned when a book, review or account does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an account with the email exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Account is a stub backend user with its password hash.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// User returns the public view of the account.
func (a *Account) User() models.User {
	return models.User{ID: a.ID, Name: a.Name, Email: a.Email}
}

// LibraryRepository stores the accounts, books and reviews the stub backend
// serves. Books are returned with their reviews populated.
type LibraryRepository interface {
	CreateAccount(a *Account) error
	AccountByEmail(email string) (*Account, error)
	AccountByID(id string) (*Account, error)

	ListBooks() ([]models.Book, error)
	GetBook(id string) (*models.Book, error)
	CreateBook(b *models.Book) error
	UpdateBook(id string, in models.BookInput) (*models.Book, error)
	DeleteBook(id string) error

	GetReview(id string) (*models.Review, error)
	CreateReview(r *models.Review) error
	UpdateReview(id string, in models.ReviewUpdate) (*models.Review, error)
	DeleteReview(id string) error
}
