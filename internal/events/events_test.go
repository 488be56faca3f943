package events_test

import (
	"context"
	"testing"

	"bookreview/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var p events.Publisher = &events.Recorder{}
	ctx := context.Background()
	require.NoError(t, p.Publish(ctx, events.New(events.BookCreated, "b1", "b1", "U1")))
	require.NoError(t, p.Publish(ctx, events.New(events.ReviewDeleted, "r1", "b1", "U1")))

	rec := p.(*events.Recorder)
	assert.Equal(t, []events.Kind{events.BookCreated, events.ReviewDeleted}, rec.Kinds())
	got := rec.Events()
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[1].ID)
	assert.False(t, got[0].At.IsZero())

	assert.NoError(t, events.Nop{}.Publish(ctx, events.Event{}))
}
