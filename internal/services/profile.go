package services

import (
	"context"
	"fmt"
	"sync"

	"bookreview/internal/catalog"
	"bookreview/internal/events"
	"bookreview/internal/models"

	"github.com/samber/lo"
)

// ProfileView derives "my books" and "my reviews" from one page of books.
// Deletes remove entries locally by id without re-running the aggregation;
// Distribution is always computed from what is currently held.
type ProfileView struct {
	env *Env

	mu      sync.RWMutex
	user    *models.User
	books   []models.Book
	reviews []catalog.AuthoredReview
	loading bool
	gen     uint64
	closed  bool
}

// NewProfileView creates the view for the session user.
func NewProfileView(env *Env) *ProfileView {
	return &ProfileView{env: env, loading: true}
}

// Load fetches up to catalog.ProfileLimit books and aggregates them. Without
// a session it returns a UserError redirecting to login. A fetch failure
// empties both collections; it is logged and also returned.
func (v *ProfileView) Load(ctx context.Context) error {
	user := v.env.Session.User()
	if user == nil {
		return &UserError{Message: "Please log in to view your profile", Redirect: RouteLogin, Err: ErrNotLoggedIn}
	}

	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.loading = true
	v.user = user
	v.mu.Unlock()

	books, err := v.env.Client.ListBooksPage(ctx, 1, catalog.ProfileLimit)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		return nil
	}
	v.loading = false
	if err != nil {
		v.env.Log.WithError(err).Error("error loading profile")
		v.books = nil
		v.reviews = nil
		return fmt.Errorf("load profile: %w", err)
	}
	v.books = catalog.OwnedBooks(books, user)
	v.reviews = catalog.AuthoredReviews(books, user)
	v.env.Log.WithFields(map[string]any{
		"books":   len(v.books),
		"reviews": len(v.reviews),
		"scanned": len(books),
	}).Debug("profile aggregated")
	return nil
}

// Close marks the view unmounted; late responses are ignored.
func (v *ProfileView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Loading is true while a fetch is outstanding.
func (v *ProfileView) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// User is the user the profile was aggregated for.
func (v *ProfileView) User() *models.User {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.user
}

// OwnBooks are the books owned by the user.
func (v *ProfileView) OwnBooks() []models.Book {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Book(nil), v.books...)
}

// Reviews are the user's reviews across all fetched books.
func (v *ProfileView) Reviews() []catalog.AuthoredReview {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]catalog.AuthoredReview(nil), v.reviews...)
}

// Distribution is the 5..1 star breakdown of Reviews.
func (v *ProfileView) Distribution() []catalog.Slice {
	return catalog.Distribution(v.Reviews(), catalog.ReviewRating)
}

// DeleteBook deletes id on the backend and, when the reply confirms it with a
// message, drops it locally. The bool reports whether it was dropped.
func (v *ProfileView) DeleteBook(ctx context.Context, id string) (bool, error) {
	msg, err := v.env.Client.DeleteBook(ctx, id)
	if err != nil {
		v.env.Log.WithError(err).WithField("book", id).Error("error deleting book")
		return false, alert(err, "Failed to delete book")
	}
	if msg == "" {
		return false, nil
	}

	v.mu.Lock()
	v.books = lo.Reject(v.books, func(b models.Book, _ int) bool { return b.ID == id })
	v.mu.Unlock()

	v.env.publish(ctx, events.BookDeleted, id, id)
	return true, nil
}

// DeleteReview deletes id on the backend and, when confirmed, drops it
// locally.
func (v *ProfileView) DeleteReview(ctx context.Context, id string) (bool, error) {
	msg, err := v.env.Client.DeleteReview(ctx, id)
	if err != nil {
		v.env.Log.WithError(err).WithField("review", id).Error("error deleting review")
		return false, alert(err, "Failed to delete review")
	}
	if msg == "" {
		return false, nil
	}

	var bookID string
	v.mu.Lock()
	if r, ok := lo.Find(v.reviews, func(r catalog.AuthoredReview) bool { return r.ID == id }); ok {
		bookID = r.BookID
	}
	v.reviews = lo.Reject(v.reviews, func(r catalog.AuthoredReview, _ int) bool { return r.ID == id })
	v.mu.Unlock()

	v.env.publish(ctx, events.ReviewDeleted, id, bookID)
	return true, nil
}
