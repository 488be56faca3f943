package stubserver_test

import (
	"context"
	"testing"

	"bookreview/internal/apiclient"
	"bookreview/internal/logger"
	"bookreview/internal/models"
	"bookreview/internal/stubserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientThroughTransport(t *testing.T) {
	srv := stubserver.New(stubserver.Config{Log: logger.Discard()})
	require.NoError(t, stubserver.Seed(srv.Repo()))

	ctx := context.Background()
	anon := apiclient.New("http://stub/api", nil, apiclient.WithHTTPClient(srv.HTTPClient()), apiclient.WithLogger(logger.Discard()))

	books, err := anon.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 4)

	paged, err := anon.ListBooksPage(ctx, 2, 3)
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	auth, err := anon.Login(ctx, models.Credentials{Email: stubserver.DemoEmail, Password: stubserver.DemoPassword})
	require.NoError(t, err)
	assert.Equal(t, "Demo Reader", auth.User.Name)

	_, err = anon.CreateBook(ctx, models.BookInput{Title: "t", Author: "a", Image: "i"})
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)

	client := apiclient.New("http://stub/api", apiclient.StaticToken(auth.Token), apiclient.WithHTTPClient(srv.HTTPClient()), apiclient.WithLogger(logger.Discard()))
	created, err := client.CreateBook(ctx, models.BookInput{Title: "Solaris", Author: "Stanislaw Lem", Image: "i", Year: 1961})
	require.NoError(t, err)
	assert.True(t, apiclient.IsObjectID(created.ID))
	assert.True(t, models.MatchesUser(created.Owner, &auth.User))

	msg, err := client.DeleteBook(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	_, err = client.GetBook(ctx, created.ID)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
	assert.Equal(t, "Book not found", apiclient.Message(err))
}

func TestSeedReviewsAreEmbedded(t *testing.T) {
	srv := stubserver.New(stubserver.Config{Log: logger.Discard()})
	require.NoError(t, stubserver.Seed(srv.Repo()))

	books, err := srv.Repo().ListBooks()
	require.NoError(t, err)
	for _, b := range books {
		assert.False(t, b.Owner.Embedded())
		for _, r := range b.Reviews {
			assert.True(t, r.User.Embedded())
		}
	}
}
