package services

import (
	"context"
	"errors"

	"bookreview/internal/apiclient"
	"bookreview/internal/events"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Route is a destination a view sends the user to after an action.
type Route string

const (
	RouteHome    Route = "/"
	RouteLogin   Route = "/login"
	RouteProfile Route = "/profile"
)

// RouteBook is the detail route of one book.
func RouteBook(id string) Route { return Route("/book/" + id) }

var (
	// ErrInvalidInput marks a form rejected before any request was sent.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotLoggedIn marks a view that needs a session.
	ErrNotLoggedIn = errors.New("not logged in")
)

// UserError is what a view surfaces to the user: a message to show and,
// optionally, a safe route to fall back to.
type UserError struct {
	Message  string
	Redirect Route
	Err      error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// alert builds a UserError from a failed call, preferring the backend's own
// message over the fallback.
func alert(err error, fallback string) *UserError {
	msg := apiclient.Message(err)
	if msg == "" {
		msg = fallback
	}
	return &UserError{Message: msg, Err: err}
}

func invalid(message string, err error) *UserError {
	return &UserError{Message: message, Err: errors.Join(ErrInvalidInput, err)}
}

// Env is the explicit context every view is built from: backend client,
// session state, event sink and logger.
type Env struct {
	Client   *apiclient.Client
	Session  *Session
	Events   events.Publisher
	Log      *logrus.Logger
	validate *validator.Validate
}

// NewEnv wires an Env. A nil publisher drops events.
func NewEnv(client *apiclient.Client, session *Session, publisher events.Publisher, log *logrus.Logger) *Env {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Env{
		Client:   client,
		Session:  session,
		Events:   publisher,
		Log:      log,
		validate: validator.New(),
	}
}

// publish sends an invalidation notice. Failures never fail the mutation.
func (e *Env) publish(ctx context.Context, kind events.Kind, id, bookID string) {
	userID := e.Session.User().PrimaryID()
	if err := e.Events.Publish(ctx, events.New(kind, id, bookID, userID)); err != nil {
		e.Log.WithError(err).WithField("kind", kind).Warn("failed to publish event")
	}
}
