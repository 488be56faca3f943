package stubserver

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Transport routes requests straight into app without a listener, so an
// apiclient.Client can talk to the stub in tests.
func Transport(app *fiber.App) http.RoundTripper {
	return roundTripper{app: app}
}

type roundTripper struct {
	app *fiber.App
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	resp, err := rt.app.Test(req.Clone(req.Context()), -1)
	if err != nil {
		return nil, err
	}
	resp.Request = req
	return resp, nil
}

// HTTPClient wraps Transport in an http.Client.
func (s *Server) HTTPClient() *http.Client {
	return &http.Client{Transport: Transport(s.app)}
}
