package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bookreview/internal/events"
	"bookreview/internal/models"
)

// AddBookForm collects a new book. Only the base64 image is submitted; the
// preview URL stays local.
type AddBookForm struct {
	env *Env

	Input      models.BookInput
	PreviewURL string
}

// NewAddBookForm creates an empty form.
func NewAddBookForm(env *Env) *AddBookForm {
	return &AddBookForm{env: env}
}

// SetYear parses free text the way a number field would: leading digits,
// anything unparsable becomes 0.
func (f *AddBookForm) SetYear(text string) {
	f.Input.Year = ParseYear(text)
}

// AttachImage loads path as the cover.
func (f *AddBookForm) AttachImage(path string) error {
	dataURL, preview, err := EncodeImageFile(path)
	if err != nil {
		return err
	}
	f.Input.Image = dataURL
	f.PreviewURL = preview
	return nil
}

// Submit posts the book once. Title, author and image must be present.
func (f *AddBookForm) Submit(ctx context.Context) (Route, error) {
	if err := f.env.validate.Struct(f.Input); err != nil {
		return "", invalid("Title, author, and image are required!", err)
	}

	book, err := f.env.Client.CreateBook(ctx, f.Input)
	if err != nil {
		f.env.Log.WithError(err).Error("error adding book")
		return "", alert(err, "Error adding book")
	}

	f.env.publish(ctx, events.BookCreated, book.ID, book.ID)
	return RouteHome, nil
}

// EditBookForm edits an existing book's fields.
type EditBookForm struct {
	env    *Env
	id     string
	loaded bool

	Input models.BookInput
}

// NewEditBookForm creates the form for book id.
func NewEditBookForm(env *Env, id string) *EditBookForm {
	return &EditBookForm{env: env, id: id}
}

// Load seeds the fields from the backend. On failure the user is sent back
// to the profile.
func (f *EditBookForm) Load(ctx context.Context) error {
	book, err := f.env.Client.GetBook(ctx, f.id)
	if err != nil {
		f.env.Log.WithError(err).WithField("book", f.id).Error("error fetching book")
		ue := alert(err, "Failed to fetch book")
		ue.Redirect = RouteProfile
		return ue
	}
	f.Input = book.Input()
	f.loaded = true
	return nil
}

// Submit sends the edited fields and returns to the profile.
func (f *EditBookForm) Submit(ctx context.Context) (Route, error) {
	if !f.loaded {
		return "", fmt.Errorf("book %s is not loaded", f.id)
	}
	if err := f.env.validate.Struct(f.Input); err != nil {
		return "", invalid("Title, author, and image are required!", err)
	}

	if _, err := f.env.Client.UpdateBook(ctx, f.id, f.Input); err != nil {
		f.env.Log.WithError(err).WithField("book", f.id).Error("error updating book")
		return "", alert(err, "Failed to update book")
	}

	f.env.publish(ctx, events.BookUpdated, f.id, f.id)
	return RouteProfile, nil
}

// ParseYear reads the leading integer of text, the way a number input does.
// Anything unparsable is 0.
func ParseYear(text string) int {
	text = strings.TrimSpace(text)
	end := 0
	for i, r := range text {
		if (r >= '0' && r <= '9') || (i == 0 && (r == '-' || r == '+')) {
			end = i + 1
			continue
		}
		break
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return n
}
