package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/handlers"
	"bookreview/internal/logger"
	"bookreview/internal/middleware"
	"bookreview/internal/models"
	"bookreview/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

// setupApp wires every handler against an empty in-memory library.
func setupApp() (*fiber.App, *middleware.Tokens) {
	log := logger.Discard()
	repo := repositories.NewMockLibraryRepository()
	tokens := middleware.NewTokens(testJWTSecret)

	app := fiber.New()
	api := app.Group("/api")
	auth := middleware.AuthRequired(tokens, log)

	handlers.NewAuthHandler(repo, tokens, log).RegisterRoutes(api)
	handlers.NewBookHandler(repo, log).RegisterRoutes(api, auth)
	handlers.NewReviewHandler(repo, log).RegisterRoutes(api, auth)
	return app, tokens
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func register(t *testing.T, app *fiber.App, name, email string) models.AuthResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", models.Registration{
		Name: name, Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.AuthResponse](t, resp)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, tokens := setupApp()

	registered := register(t, app, "Ada", "ada@example.com")
	assert.NotEmpty(t, registered.Token)
	assert.NotEmpty(t, registered.User.ID)
	assert.Equal(t, "Ada", registered.User.Name)

	// duplicate email
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", models.Registration{
		Name: "Other", Email: "ada@example.com", Password: "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", decode[models.MessageResponse](t, resp).Message)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", models.Credentials{
		Email: "ada@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[models.AuthResponse](t, resp)
	assert.NotEmpty(t, login.Token)

	userID, err := tokens.Validate(login.Token)
	assert.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", models.Credentials{
		Email: "ada@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decode[models.MessageResponse](t, resp).Message)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setupApp()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[models.MessageResponse](t, resp).Message)
}

func TestBookAndReviewLifecycle(t *testing.T) {
	app, _ := setupApp()
	owner := register(t, app, "Owner", "owner@example.com")
	reader := register(t, app, "Reader", "reader@example.com")

	// create
	resp := doJSON(t, app, http.MethodPost, "/api/books", owner.Token, models.BookInput{
		Title: "Dune", Author: "Frank Herbert", Year: 1965, Image: "data:image/png;base64,AA==",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	book := decode[models.Book](t, resp)
	assert.NotEmpty(t, book.ID)
	assert.False(t, book.Owner.Embedded())
	assert.Equal(t, owner.User.ID, book.Owner.ID)

	// list, both shapes
	resp = doJSON(t, app, http.MethodGet, "/api/books", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Book](t, resp), 1)

	resp = doJSON(t, app, http.MethodGet, "/api/books?page=1&limit=100", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	paged := decode[struct {
		Books []models.Book `json:"books"`
		Total int           `json:"total"`
	}](t, resp)
	assert.Len(t, paged.Books, 1)
	assert.Equal(t, 1, paged.Total)

	// review by another user
	resp = doJSON(t, app, http.MethodPost, "/api/reviews", reader.Token, models.ReviewInput{
		BookID: book.ID, Rating: 4, Comment: "Spice.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	review := decode[models.Review](t, resp)
	assert.True(t, review.User.Embedded())
	assert.Equal(t, reader.User.ID, review.User.ID)

	resp = doJSON(t, app, http.MethodGet, "/api/books/"+book.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[models.Book](t, resp)
	require.Len(t, fetched.Reviews, 1)
	assert.Equal(t, 1, fetched.ReviewsCount)
	assert.Equal(t, 4.0, fetched.AverageRating)

	// only the author may edit the review
	resp = doJSON(t, app, http.MethodPut, "/api/reviews/"+review.ID, owner.Token, models.ReviewUpdate{Rating: 1, Comment: "no"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/reviews/"+review.ID, reader.Token, models.ReviewUpdate{Rating: 5, Comment: "Better on reread."})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, decode[models.Review](t, resp).Rating)

	// only the owner may edit the book
	resp = doJSON(t, app, http.MethodPut, "/api/books/"+book.ID, reader.Token, book.Input())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// deleting the book takes its reviews with it
	resp = doJSON(t, app, http.MethodDelete, "/api/books/"+book.ID, owner.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decode[models.MessageResponse](t, resp).Message, "deleted successfully")

	resp = doJSON(t, app, http.MethodGet, "/api/books/"+book.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/reviews/"+review.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBookEndpointsWithoutAuth(t *testing.T) {
	app, _ := setupApp()

	resp := doJSON(t, app, http.MethodGet, "/api/books", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/books", "", models.BookInput{Title: "t", Author: "a", Image: "i"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token, authorization denied", decode[models.MessageResponse](t, resp).Message)

	resp = doJSON(t, app, http.MethodPost, "/api/books", "garbage", models.BookInput{Title: "t", Author: "a", Image: "i"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/reviews/0123456789abcdef01234567", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownIDs(t *testing.T) {
	app, _ := setupApp()

	resp := doJSON(t, app, http.MethodGet, "/api/books/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Book not found", decode[models.MessageResponse](t, resp).Message)

	resp = doJSON(t, app, http.MethodGet, "/api/books/0123456789abcdef01234567", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
