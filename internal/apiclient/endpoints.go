package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"bookreview/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register calls POST /auth/register.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBooks calls GET /books.
func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var out models.BookList
	if err := c.do(ctx, http.MethodGet, "/books", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBooksPage calls GET /books?page=&limit=.
func (c *Client) ListBooksPage(ctx context.Context, page, limit int) ([]models.Book, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out models.BookList
	if err := c.do(ctx, http.MethodGet, "/books", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBook calls GET /books/:id.
func (c *Client) GetBook(ctx context.Context, id string) (*models.Book, error) {
	var out models.Book
	if err := c.do(ctx, http.MethodGet, idPath("/books", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBook calls POST /books.
func (c *Client) CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error) {
	var out models.Book
	if err := c.do(ctx, http.MethodPost, "/books", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBook calls PUT /books/:id.
func (c *Client) UpdateBook(ctx context.Context, id string, in models.BookInput) (*models.Book, error) {
	var out models.Book
	if err := c.do(ctx, http.MethodPut, idPath("/books", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBook calls DELETE /books/:id and returns the confirmation message.
func (c *Client) DeleteBook(ctx context.Context, id string) (string, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodDelete, idPath("/books", id), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// CreateReview calls POST /reviews.
func (c *Client) CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	var out models.Review
	if err := c.do(ctx, http.MethodPost, "/reviews", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReview calls GET /reviews/:id.
func (c *Client) GetReview(ctx context.Context, id string) (*models.Review, error) {
	var out models.Review
	if err := c.do(ctx, http.MethodGet, idPath("/reviews", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReview calls PUT /reviews/:id.
func (c *Client) UpdateReview(ctx context.Context, id string, in models.ReviewUpdate) (*models.Review, error) {
	var out models.Review
	if err := c.do(ctx, http.MethodPut, idPath("/reviews", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReview calls DELETE /reviews/:id and returns the confirmation message.
func (c *Client) DeleteReview(ctx context.Context, id string) (string, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodDelete, idPath("/reviews", id), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// IsObjectID reports whether id looks like a backend document id.
func IsObjectID(id string) bool {
	return primitive.IsValidObjectID(id)
}
