// Package events describes the invalidation notices emitted after every
// successful mutation. Views never patch themselves from events; a notice
// only tells other sessions that what they loaded may be stale.
package events

import (
	"context"
	"sync"
	"time"
)

// Kind names what changed.
type Kind string

const (
	BookCreated   Kind = "book.created"
	BookUpdated   Kind = "book.updated"
	BookDeleted   Kind = "book.deleted"
	ReviewCreated Kind = "review.created"
	ReviewUpdated Kind = "review.updated"
	ReviewDeleted Kind = "review.deleted"
)

// Event is one invalidation notice.
type Event struct {
	Kind   Kind      `json:"kind"`
	ID     string    `json:"id"`
	BookID string    `json:"bookId,omitempty"`
	UserID string    `json:"userId,omitempty"`
	At     time.Time `json:"at"`
}

// New stamps an event with the current time.
func New(kind Kind, id, bookID, userID string) Event {
	return Event{Kind: kind, ID: id, BookID: bookID, UserID: userID, At: time.Now().UTC()}
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of what was published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds lists the kinds published so far, in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}
