package handlers

import (
	"errors"

	"bookreview/internal/middleware"
	"bookreview/internal/models"
	"bookreview/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	repo     repositories.LibraryRepository
	validate *validator.Validate
	log      *logrus.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(repo repositories.LibraryRepository, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the review routes.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Get("/:id", h.HandleGetReview)
	reviewRoutes.Post("/", auth, h.HandleCreateReview)
	reviewRoutes.Put("/:id", auth, h.HandleUpdateReview)
	reviewRoutes.Delete("/:id", auth, h.HandleDeleteReview)
}

// HandleGetReview returns one review.
func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	id, ok := objectID(c)
	if !ok {
		return message(c, fiber.StatusNotFound, "Review not found")
	}
	review, err := h.repo.GetReview(id)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	return c.JSON(review)
}

// HandleCreateReview posts a review by the caller on an existing book.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var in models.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, "Rating (1-5) and comment are required", err)
	}
	if !primitive.IsValidObjectID(in.BookID) {
		return message(c, fiber.StatusNotFound, "Book not found")
	}

	author, err := h.repo.AccountByID(middleware.UserID(c))
	if err != nil {
		return message(c, fiber.StatusUnauthorized, "User not found")
	}

	review := &models.Review{
		Book:    models.RefID(in.BookID),
		Rating:  in.Rating,
		Comment: in.Comment,
		User:    models.EmbeddedRef(author.ID, author.Name, ""),
	}
	if err := h.repo.CreateReview(review); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return message(c, fiber.StatusNotFound, "Book not found")
		}
		h.log.WithError(err).Error("failed to create review")
		return message(c, fiber.StatusInternalServerError, "Server error")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleUpdateReview edits a review. Only its author may do so.
func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	id, ok := objectID(c)
	if !ok {
		return message(c, fiber.StatusNotFound, "Review not found")
	}
	var in models.ReviewUpdate
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, "Rating (1-5) and comment are required", err)
	}

	existing, err := h.repo.GetReview(id)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	if existing.User.ID != middleware.UserID(c) {
		return message(c, fiber.StatusForbidden, "Not authorized to update this review")
	}

	review, err := h.repo.UpdateReview(id, in)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	return c.JSON(review)
}

// HandleDeleteReview removes a review. Only its author may do so.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	id, ok := objectID(c)
	if !ok {
		return message(c, fiber.StatusNotFound, "Review not found")
	}
	existing, err := h.repo.GetReview(id)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	if existing.User.ID != middleware.UserID(c) {
		return message(c, fiber.StatusForbidden, "Not authorized to delete this review")
	}

	if err := h.repo.DeleteReview(id); err != nil {
		return h.lookupFailed(c, err)
	}
	return message(c, fiber.StatusOK, "Review deleted successfully")
}

func (h *ReviewHandler) lookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return message(c, fiber.StatusNotFound, "Review not found")
	}
	h.log.WithError(err).Error("review lookup failed")
	return message(c, fiber.StatusInternalServerError, "Server error")
}
