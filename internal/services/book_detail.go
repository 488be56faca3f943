package services

import (
	"context"
	"fmt"
	"sync"

	"bookreview/internal/catalog"
	"bookreview/internal/events"
	"bookreview/internal/models"
)

// ReviewDraft is the rating and comment being typed.
type ReviewDraft struct {
	Rating  int
	Comment string
}

// BookDetailView shows one book with its reviews. Every mutation is followed
// by a full re-fetch; nothing is patched locally.
type BookDetailView struct {
	env *Env
	id  string

	mu        sync.Mutex
	book      *models.Book
	loading   bool
	draft     ReviewDraft
	editingID string
	editDraft ReviewDraft
	gen       uint64
	closed    bool
}

// NewBookDetailView creates the view for book id.
func NewBookDetailView(env *Env, id string) *BookDetailView {
	return &BookDetailView{env: env, id: id, loading: true}
}

// ID is the book this view shows.
func (v *BookDetailView) ID() string { return v.id }

// Load fetches the book. A response that arrives after Close or after a newer
// Load is discarded. On failure the book is cleared and the returned
// UserError redirects to the profile.
func (v *BookDetailView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.loading = true
	v.mu.Unlock()

	book, err := v.env.Client.GetBook(ctx, v.id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		v.env.Log.WithField("book", v.id).Debug("dropping stale book response")
		return nil
	}
	v.loading = false
	if err != nil {
		v.env.Log.WithError(err).WithField("book", v.id).Error("error fetching book")
		v.book = nil
		ue := alert(err, "Failed to fetch book")
		ue.Redirect = RouteProfile
		return ue
	}
	v.book = book
	return nil
}

// Close marks the view unmounted. In-flight requests are not cancelled.
func (v *BookDetailView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Loading is true while a fetch is outstanding.
func (v *BookDetailView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Book returns the last loaded book, nil if none.
func (v *BookDetailView) Book() *models.Book {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.book == nil {
		return nil
	}
	b := *v.book
	return &b
}

// Histogram counts the loaded reviews by rating, five buckets 1..5.
func (v *BookDetailView) Histogram() []catalog.RatingBucket {
	var reviews []models.Review
	if b := v.Book(); b != nil {
		reviews = b.Reviews
	}
	return catalog.Histogram(reviews, func(r models.Review) int { return r.Rating })
}

// CanModify reports whether the viewer wrote r and so gets edit/delete
// controls. The backend still enforces ownership.
func (v *BookDetailView) CanModify(r models.Review) bool {
	return models.MatchesUser(r.User, v.env.Session.User())
}

// OwnsBook reports whether the viewer owns the loaded book.
func (v *BookDetailView) OwnsBook() bool {
	b := v.Book()
	return b != nil && models.MatchesUser(b.Owner, v.env.Session.User())
}

// SetDraft updates the new-review draft.
func (v *BookDetailView) SetDraft(rating int, comment string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = ReviewDraft{Rating: rating, Comment: comment}
}

// Draft returns the new-review draft.
func (v *BookDetailView) Draft() ReviewDraft {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// SubmitReview posts the draft. An empty comment or a rating outside 1..5 is
// rejected without a request.
func (v *BookDetailView) SubmitReview(ctx context.Context) error {
	draft := v.Draft()
	in := models.ReviewInput{BookID: v.id, Rating: draft.Rating, Comment: draft.Comment}
	if err := v.env.validate.Struct(in); err != nil {
		return invalid("Please add a rating and comment", err)
	}

	review, err := v.env.Client.CreateReview(ctx, in)
	if err != nil {
		return alert(err, "Error submitting review")
	}

	v.mu.Lock()
	v.draft = ReviewDraft{}
	v.mu.Unlock()

	v.env.publish(ctx, events.ReviewCreated, review.ID, v.id)
	return v.Load(ctx)
}

// BeginEdit starts editing reviewID, seeded from its current values. Any
// other unsaved edit is dropped.
func (v *BookDetailView) BeginEdit(reviewID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.book == nil {
		return fmt.Errorf("book %s is not loaded", v.id)
	}
	for _, r := range v.book.Reviews {
		if r.ID == reviewID {
			v.editingID = r.ID
			v.editDraft = ReviewDraft{Rating: r.Rating, Comment: r.Comment}
			return nil
		}
	}
	return fmt.Errorf("review %s is not on book %s", reviewID, v.id)
}

// Editing returns the review being edited and its draft; "" when none.
func (v *BookDetailView) Editing() (string, ReviewDraft) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editingID, v.editDraft
}

// SetEditDraft updates the in-progress edit.
func (v *BookDetailView) SetEditDraft(rating int, comment string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editDraft = ReviewDraft{Rating: rating, Comment: comment}
}

// CancelEdit abandons the in-progress edit.
func (v *BookDetailView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editingID = ""
	v.editDraft = ReviewDraft{}
}

// SaveEdit sends the in-progress edit and re-fetches.
func (v *BookDetailView) SaveEdit(ctx context.Context) error {
	id, draft := v.Editing()
	if id == "" {
		return fmt.Errorf("no review is being edited")
	}
	in := models.ReviewUpdate{Rating: draft.Rating, Comment: draft.Comment}
	if err := v.env.validate.Struct(in); err != nil {
		return invalid("Please add a rating and comment", err)
	}

	if _, err := v.env.Client.UpdateReview(ctx, id, in); err != nil {
		return alert(err, "Error updating review")
	}
	v.CancelEdit()

	v.env.publish(ctx, events.ReviewUpdated, id, v.id)
	return v.Load(ctx)
}

// DeleteReview removes reviewID and re-fetches.
func (v *BookDetailView) DeleteReview(ctx context.Context, reviewID string) error {
	if _, err := v.env.Client.DeleteReview(ctx, reviewID); err != nil {
		return alert(err, "Error deleting review")
	}
	v.env.publish(ctx, events.ReviewDeleted, reviewID, v.id)
	return v.Load(ctx)
}
