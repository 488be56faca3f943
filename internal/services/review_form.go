package services

import (
	"context"
	"fmt"

	"bookreview/internal/events"
	"bookreview/internal/models"
)

// EditReviewForm edits one review outside of its book page.
type EditReviewForm struct {
	env    *Env
	id     string
	bookID string
	loaded bool

	Input models.ReviewUpdate
}

// NewEditReviewForm creates the form for review id.
func NewEditReviewForm(env *Env, id string) *EditReviewForm {
	return &EditReviewForm{env: env, id: id}
}

// Load seeds rating and comment. A missing rating shows as 1.
func (f *EditReviewForm) Load(ctx context.Context) error {
	review, err := f.env.Client.GetReview(ctx, f.id)
	if err != nil {
		f.env.Log.WithError(err).WithField("review", f.id).Error("error fetching review")
		ue := alert(err, "Failed to fetch review")
		ue.Redirect = RouteProfile
		return ue
	}
	f.Input = models.ReviewUpdate{Rating: review.Rating, Comment: review.Comment}
	if f.Input.Rating == 0 {
		f.Input.Rating = 1
	}
	f.bookID = review.Book.ID
	f.loaded = true
	return nil
}

// Submit sends rating and comment and returns to the profile.
func (f *EditReviewForm) Submit(ctx context.Context) (Route, error) {
	if !f.loaded {
		return "", fmt.Errorf("review %s is not loaded", f.id)
	}
	if err := f.env.validate.Struct(f.Input); err != nil {
		return "", invalid("Please add a rating and comment", err)
	}

	if _, err := f.env.Client.UpdateReview(ctx, f.id, f.Input); err != nil {
		f.env.Log.WithError(err).WithField("review", f.id).Error("error updating review")
		return "", alert(err, "Failed to update review")
	}

	f.env.publish(ctx, events.ReviewUpdated, f.id, f.bookID)
	return RouteProfile, nil
}
