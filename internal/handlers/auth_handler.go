package handlers

import (
	"errors"

	"bookreview/internal/middleware"
	"bookreview/internal/models"
	"bookreview/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	repo     repositories.LibraryRepository
	tokens   *middleware.Tokens
	validate *validator.Validate
	log      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(repo repositories.LibraryRepository, tokens *middleware.Tokens, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister creates an account and logs it in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.Registration
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, "Please provide name, email and password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.WithError(err).Error("failed to hash password")
		return message(c, fiber.StatusInternalServerError, "Server error")
	}

	account := &repositories.Account{Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	if err := h.repo.CreateAccount(account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return message(c, fiber.StatusBadRequest, "User already exists")
		}
		h.log.WithError(err).Error("failed to register user")
		return message(c, fiber.StatusInternalServerError, "Server error")
	}

	return h.respondWithToken(c, fiber.StatusCreated, account)
}

// HandleLogin checks credentials and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.Credentials
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, "Please provide email and password", err)
	}

	account, err := h.repo.AccountByEmail(req.Email)
	if err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid credentials")
	}

	return h.respondWithToken(c, fiber.StatusOK, account)
}

func (h *AuthHandler) respondWithToken(c *fiber.Ctx, status int, account *repositories.Account) error {
	token, err := h.tokens.Issue(account.ID)
	if err != nil {
		h.log.WithError(err).Error("failed to issue token")
		return message(c, fiber.StatusInternalServerError, "Server error")
	}
	return c.Status(status).JSON(models.AuthResponse{Token: token, User: account.User()})
}
