package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Book as served by the backend, with its reviews embedded.
type Book struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Genre         string   `json:"genre"`
	Year          Year     `json:"year"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Owner         Ref      `json:"owner"`
	AverageRating float64  `json:"averageRating"`
	ReviewsCount  int      `json:"reviewsCount"`
	Reviews       []Review `json:"reviews"`
}

// Input returns the editable fields of the book.
func (b Book) Input() BookInput {
	return BookInput{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Year:        int(b.Year),
		Description: b.Description,
		Image:       b.Image,
	}
}

// BookInput is the body of POST /books and PUT /books/:id.
type BookInput struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre"`
	Year        int    `json:"year"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"required"`
}

// Year decodes from a JSON number or a numeric string. Anything else is 0.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			*y = 0
			return nil
		}
		*y = Year(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("year: %w", err)
	}
	*y = Year(int(f))
	return nil
}

func (y Year) String() string {
	return strconv.Itoa(int(y))
}

// BookList decodes both list shapes the backend uses: a bare array, or an
// object wrapping the array under "books".
type BookList []Book

func (l *BookList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var books []Book
		if err := json.Unmarshal(data, &books); err != nil {
			return err
		}
		*l = books
		return nil
	}
	var wrapped struct {
		Books []Book `json:"books"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Books
	return nil
}

// MessageResponse is the body of the delete endpoints and of error replies.
type MessageResponse struct {
	Message string `json:"message"`
}
