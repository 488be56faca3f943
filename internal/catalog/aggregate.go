package catalog

import (
	"bookreview/internal/models"

	"github.com/samber/lo"
)

// ProfileLimit is how many books the profile view pulls in one page.
const ProfileLimit = 100

// AuthoredReview is a review lifted out of its book, carrying the parent's
// display fields since the review itself does not have them.
type AuthoredReview struct {
	models.Review
	BookID    string `json:"bookId"`
	BookTitle string `json:"bookTitle"`
	BookImage string `json:"bookImage"`
}

// ReviewRating adapts AuthoredReview for Histogram and Distribution.
func ReviewRating(r AuthoredReview) int { return r.Rating }

// OwnedBooks returns the books whose owner reference matches user.
func OwnedBooks(books []models.Book, user *models.User) []models.Book {
	return lo.Filter(books, func(b models.Book, _ int) bool {
		return models.MatchesUser(b.Owner, user)
	})
}

// AuthoredReviews walks every embedded review of every book and keeps the
// ones written by user, annotated with the parent book.
func AuthoredReviews(books []models.Book, user *models.User) []AuthoredReview {
	return lo.FlatMap(books, func(b models.Book, _ int) []AuthoredReview {
		return lo.FilterMap(b.Reviews, func(r models.Review, _ int) (AuthoredReview, bool) {
			if !models.MatchesUser(r.User, user) {
				return AuthoredReview{}, false
			}
			return AuthoredReview{
				Review:    r,
				BookID:    b.ID,
				BookTitle: b.Title,
				BookImage: b.Image,
			}, true
		})
	})
}
