package services_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"bookreview/internal/apiclient"
	"bookreview/internal/events"
	"bookreview/internal/logger"
	"bookreview/internal/models"
	"bookreview/internal/repositories"
	"bookreview/internal/services"
	"bookreview/internal/stubserver"

	"github.com/stretchr/testify/require"
)

// countingTransport counts the requests that reach the backend.
type countingTransport struct {
	next  http.RoundTripper
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(req)
}

func (c *countingTransport) Calls() int { return int(c.calls.Load()) }

type fixture struct {
	srv    *stubserver.Server
	env    *services.Env
	store  *repositories.MockStateRepository
	wire   *countingTransport
	events *events.Recorder
}

// newFixture wires an Env against a fresh stub backend.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := stubserver.New(stubserver.Config{Log: logger.Discard()})
	return newFixtureFor(t, stubserver.Transport(srv.App()), srv)
}

// newFixtureFor wires an Env against an arbitrary transport.
func newFixtureFor(t *testing.T, rt http.RoundTripper, srv *stubserver.Server) *fixture {
	t.Helper()
	store := repositories.NewMockStateRepository()
	session, err := services.LoadSession(store)
	require.NoError(t, err)

	wire := &countingTransport{next: rt}
	client := apiclient.New("http://stub/api", session,
		apiclient.WithHTTPClient(&http.Client{Transport: wire}),
		apiclient.WithLogger(logger.Discard()))
	rec := &events.Recorder{}

	return &fixture{
		srv:    srv,
		env:    services.NewEnv(client, session, rec, logger.Discard()),
		store:  store,
		wire:   wire,
		events: rec,
	}
}

// signup registers a user and makes it the session user.
func (f *fixture) signup(t *testing.T, name, email string) *models.AuthResponse {
	t.Helper()
	auth, err := services.NewAuthService(f.env).Signup(context.Background(), models.Registration{
		Name: name, Email: email, Password: "password123",
	})
	require.NoError(t, err)
	return auth
}

// addBook creates a book as the session user and returns its id.
func (f *fixture) addBook(t *testing.T, title, author string) string {
	t.Helper()
	book, err := f.env.Client.CreateBook(context.Background(), models.BookInput{
		Title: title, Author: author, Image: "data:image/png;base64,AA==", Year: 2001,
	})
	require.NoError(t, err)
	return book.ID
}

// addReview posts a review as the session user and returns its id.
func (f *fixture) addReview(t *testing.T, bookID string, rating int, comment string) string {
	t.Helper()
	review, err := f.env.Client.CreateReview(context.Background(), models.ReviewInput{
		BookID: bookID, Rating: rating, Comment: comment,
	})
	require.NoError(t, err)
	return review.ID
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
