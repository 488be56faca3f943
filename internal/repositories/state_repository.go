package repositories

import "errors"

// Keys under which session state is persisted.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyTheme = "theme"
)

// ErrKeyNotFound is returned by Get for a key that was never set or was deleted.
var ErrKeyNotFound = errors.New("key not found")

// StateRepository is the durable key-value store behind the session.
type StateRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}
