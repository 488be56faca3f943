package cli

import (
	"bytes"
	"strings"
	"testing"

	"bookreview/internal/logger"
	"bookreview/internal/models"
	"bookreview/internal/repositories"
	"bookreview/internal/services"
	"bookreview/internal/stubserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp points the CLI at a seeded stub with an in-memory session store.
func newTestApp(t *testing.T) (*app, *stubserver.Server) {
	t.Helper()
	srv := stubserver.New(stubserver.Config{Log: logger.Discard()})
	require.NoError(t, stubserver.Seed(srv.Repo()))

	return &app{
		log:        logger.Discard(),
		httpClient: srv.HTTPClient(),
		state:      repositories.NewMockStateRepository(),
	}, srv
}

func run(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api", "http://stub/api"}, args...))

	err := cmd.Execute()
	require.NoError(t, a.close())
	return out.String(), err
}

func login(t *testing.T, a *app) {
	t.Helper()
	out, err := run(t, a, "", "login", "--email", stubserver.DemoEmail, "--password", stubserver.DemoPassword)
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as Demo Reader")
}

func bookByTitle(t *testing.T, srv *stubserver.Server, title string) models.Book {
	t.Helper()
	books, err := srv.Repo().ListBooks()
	require.NoError(t, err)
	for _, b := range books {
		if b.Title == title {
			return b
		}
	}
	t.Fatalf("no book %q", title)
	return models.Book{}
}

func TestLoginWhoamiLogout(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	login(t, a)

	out, err = run(t, a, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Demo Reader <demo@example.com>")

	out, err = run(t, a, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = run(t, a, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestLoginPromptsForMissingFlags(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, stubserver.DemoEmail+"\n"+stubserver.DemoPassword+"\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Logged in as Demo Reader")
}

func TestLoginWrongPassword(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := run(t, a, "", "login", "--email", stubserver.DemoEmail, "--password", "nope")
	var ue *services.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Invalid credentials", ue.Message)
}

func TestSignup(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, "", "signup", "--name", "Grace", "--email", "grace@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Grace")
}

func TestBooksListAndFilter(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, "", "books")
	require.NoError(t, err)
	assert.Contains(t, out, "The Left Hand of Darkness")
	assert.Contains(t, out, "Beloved")
	assert.Contains(t, out, "Page 1 of 1")

	out, err = run(t, a, "", "books", "--author", "le guin")
	require.NoError(t, err)
	assert.Contains(t, out, "A Wizard of Earthsea")
	assert.NotContains(t, out, "Beloved")

	out, err = run(t, a, "", "books", "--year", "2100")
	require.NoError(t, err)
	assert.Contains(t, out, "No books found.")
}

func TestBookShow(t *testing.T) {
	a, srv := newTestApp(t)
	book := bookByTitle(t, srv, "The Left Hand of Darkness")

	out, err := run(t, a, "", "book", "show", book.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "by Ursula K. Le Guin (1969)")
	assert.Contains(t, out, "A landmark.")
	assert.Contains(t, out, "5★")
	assert.NotContains(t, out, "(yours)")

	login(t, a)
	out, err = run(t, a, "", "book", "show", book.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "(yours)")
}

func TestBookShowMissing(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := run(t, a, "", "book", "show", "0123456789abcdef01234567")
	require.Error(t, err)

	var buf bytes.Buffer
	Report(&buf, err)
	assert.Contains(t, buf.String(), "Error: Book not found")
	assert.Contains(t, buf.String(), "bookreview profile")
}

func TestReviewAddRefreshesBook(t *testing.T) {
	a, srv := newTestApp(t)
	book := bookByTitle(t, srv, "The Name of the Rose")
	login(t, a)

	out, err := run(t, a, "", "review", "add", book.ID, "--rating", "4", "--comment", "Labyrinthine.")
	require.NoError(t, err)
	assert.Contains(t, out, "Labyrinthine.")
	assert.Contains(t, out, "(yours)")
	assert.Contains(t, out, "4.0 (1)")
}

func TestReviewAddRejectsMissingRating(t *testing.T) {
	a, srv := newTestApp(t)
	book := bookByTitle(t, srv, "The Name of the Rose")
	login(t, a)

	_, err := run(t, a, "", "review", "add", book.ID, "--comment", "no stars")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestProfileAndDeleteBook(t *testing.T) {
	a, srv := newTestApp(t)
	login(t, a)

	out, err := run(t, a, "", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "My books")
	assert.Contains(t, out, "Beloved")
	assert.Contains(t, out, "Rating distribution")
	assert.Contains(t, out, "5 Stars")

	beloved := bookByTitle(t, srv, "Beloved")

	// declined
	out, err = run(t, a, "n\n", "profile", "delete-book", beloved.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Delete this book? [y/N]")
	_, err = srv.Repo().GetBook(beloved.ID)
	assert.NoError(t, err)

	out, err = run(t, a, "", "profile", "delete-book", beloved.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")
	_, err = srv.Repo().GetBook(beloved.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProfileRequiresLogin(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := run(t, a, "", "profile")
	var ue *services.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, services.RouteLogin, ue.Redirect)
}

func TestReviewEditAndDelete(t *testing.T) {
	a, srv := newTestApp(t)
	login(t, a)
	book := bookByTitle(t, srv, "A Wizard of Earthsea")
	require.Len(t, book.Reviews, 1)
	reviewID := book.Reviews[0].ID

	out, err := run(t, a, "", "review", "edit", reviewID, "--rating", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Review updated")
	review, err := srv.Repo().GetReview(reviewID)
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Slow start, lovely ending.", review.Comment)

	out, err = run(t, a, "", "review", "delete", reviewID, "--book", book.ID, "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "Review deleted")
	assert.Contains(t, out, "No reviews yet.")
}

func TestBookAddAndEdit(t *testing.T) {
	a, srv := newTestApp(t)
	login(t, a)

	_, err := run(t, a, "", "book", "add", "--title", "Kindred", "--author", "Octavia E. Butler")
	var ue *services.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Title, author, and image are required!", ue.Message)

	beloved := bookByTitle(t, srv, "Beloved")
	out, err := run(t, a, "", "book", "edit", beloved.ID, "--year", "1988", "--genre", "Historical")
	require.NoError(t, err)
	assert.Contains(t, out, `Updated "Beloved"`)

	updated := bookByTitle(t, srv, "Beloved")
	assert.Equal(t, models.Year(1988), updated.Year)
	assert.Equal(t, "Historical", updated.Genre)
	assert.Equal(t, beloved.Image, updated.Image)
}

func TestTheme(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, "", "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: dark")

	out, err = run(t, a, "", "theme", "--show")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")
}

func TestWatchNeedsBroker(t *testing.T) {
	a, _ := newTestApp(t)
	t.Setenv("BOOKREVIEW_RABBITMQ_URL", "")

	_, err := run(t, a, "", "watch")
	assert.EqualError(t, err, "rabbitmq_url is not configured")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★★★", stars(9))
}
