package handlers

import (
	"errors"

	"bookreview/internal/catalog"
	"bookreview/internal/middleware"
	"bookreview/internal/models"
	"bookreview/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const defaultListLimit = 10

// BookHandler handles HTTP requests for books.
type BookHandler struct {
	repo     repositories.LibraryRepository
	validate *validator.Validate
	log      *logrus.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(repo repositories.LibraryRepository, log *logrus.Logger) *BookHandler {
	return &BookHandler{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the book routes. Reads are public; writes go
// through auth.
func (h *BookHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleListBooks)
	bookRoutes.Get("/:id", h.HandleGetBook)
	bookRoutes.Post("/", auth, h.HandleCreateBook)
	bookRoutes.Put("/:id", auth, h.HandleUpdateBook)
	bookRoutes.Delete("/:id", auth, h.HandleDeleteBook)
}

// HandleListBooks returns every book as a bare array, or one page wrapped in
// {books, page, limit, total} when page or limit is given.
func (h *BookHandler) HandleListBooks(c *fiber.Ctx) error {
	books, err := h.repo.ListBooks()
	if err != nil {
		h.log.WithError(err).Error("failed to list books")
		return message(c, fiber.StatusInternalServerError, "Server error")
	}

	if c.Query("page") == "" && c.Query("limit") == "" {
		return c.JSON(books)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 {
		limit = defaultListLimit
	}
	pageBooks := catalog.Paginate(books, page, limit)
	if pageBooks == nil {
		pageBooks = []models.Book{}
	}
	return c.JSON(fiber.Map{
		"books":      pageBooks,
		"page":       page,
		"limit":      limit,
		"total":      len(books),
		"totalPages": catalog.TotalPages(len(books), limit),
	})
}

// HandleGetBook returns one book with its reviews.
func (h *BookHandler) HandleGetBook(c *fiber.Ctx) error {
	id, ok := objectID(c)
	if !ok {
		return message(c, fiber.StatusNotFound, "Book not found")
	}
	book, err := h.repo.GetBook(id)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	return c.JSON(book)
}

// HandleCreateBook adds a book owned by the caller.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var in models.BookInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, "Title, author and image are required", err)
	}

	book := &models.Book{
		Title:       in.Title,
		Author:      in.Author,
		Genre:       in.Genre,
		Year:        models.Year(in.Year),
		Description: in.Description,
		Image:       in.Image,
		Owner:       models.RefID(middleware.UserID(c)),
	}
	if err := h.repo.CreateBook(book); err != nil {
		h.log.WithError(err).Error("failed to create book")
		return message(c, fiber.StatusInternalServerError, "Server error")
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// HandleUpdateBook edits a book. Only its owner may do so.
func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	id, ok := objectID(c)
	if !ok {
		return message(c, fiber.StatusNotFound, "Book not found")
	}
	var in models.BookInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, "Title, author and image are required", err)
	}

	existing, err := h.repo.GetBook(id)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	if existing.Owner.ID != middleware.UserID(c) {
		return message(c, fiber.StatusForbidden, "Not authorized to update this book")
	}

	book, err := h.repo.UpdateBook(id, in)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	return c.JSON(book)
}

// HandleDeleteBook removes a book and its reviews. Only its owner may do so.
func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	id, ok := objectID(c)
	if !ok {
		return message(c, fiber.StatusNotFound, "Book not found")
	}
	existing, err := h.repo.GetBook(id)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	if existing.Owner.ID != middleware.UserID(c) {
		return message(c, fiber.StatusForbidden, "Not authorized to delete this book")
	}

	if err := h.repo.DeleteBook(id); err != nil {
		return h.lookupFailed(c, err)
	}
	return message(c, fiber.StatusOK, "Book deleted successfully")
}

func (h *BookHandler) lookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return message(c, fiber.StatusNotFound, "Book not found")
	}
	h.log.WithError(err).Error("book lookup failed")
	return message(c, fiber.StatusInternalServerError, "Server error")
}
