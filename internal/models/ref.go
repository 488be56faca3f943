package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref points at a user or book. The backend sends it either as a bare id
// string or as an embedded document carrying its own id.
type Ref struct {
	ID    string
	Name  string
	Email string

	embedded bool
}

// RefID builds a bare id reference.
func RefID(id string) Ref {
	return Ref{ID: id}
}

// EmbeddedRef builds a reference that serializes as an object.
func EmbeddedRef(id, name, email string) Ref {
	return Ref{ID: id, Name: name, Email: email, embedded: true}
}

// Embedded reports whether the reference arrived as an object.
func (r Ref) Embedded() bool { return r.embedded }

// IsZero reports whether the reference carries no id.
func (r Ref) IsZero() bool { return r.ID == "" }

type refDocument struct {
	MongoID string `json:"_id,omitempty"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
}

// UnmarshalJSON accepts null, "id" or {"_id": "id", ...}.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Ref{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	case data[0] == '{':
		var doc refDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		id := doc.MongoID
		if id == "" {
			id = doc.ID
		}
		*r = Ref{ID: id, Name: doc.Name, Email: doc.Email, embedded: true}
		return nil
	}
	return fmt.Errorf("reference must be a string or an object, got %s", data)
}

// MarshalJSON writes the reference back in the shape it was read in.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.embedded {
		return json.Marshal(refDocument{MongoID: r.ID, Name: r.Name, Email: r.Email})
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// MatchesUser is the single identity comparison used across the client.
// A reference matches when its id equals any id spelling the user carries.
func MatchesUser(ref Ref, user *User) bool {
	if user == nil || ref.IsZero() {
		return false
	}
	for _, id := range user.Identities() {
		if id == ref.ID {
			return true
		}
	}
	return false
}
