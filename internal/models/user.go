package models

// User is the cached copy of the authenticated account.
// Depending on the endpoint the id arrives as "id" or "_id".
type User struct {
	ID      string `json:"id,omitempty"`
	MongoID string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Identities returns every non-empty id spelling of the user, deduplicated.
func (u *User) Identities() []string {
	if u == nil {
		return nil
	}
	ids := make([]string, 0, 2)
	if u.ID != "" {
		ids = append(ids, u.ID)
	}
	if u.MongoID != "" && u.MongoID != u.ID {
		ids = append(ids, u.MongoID)
	}
	return ids
}

// PrimaryID prefers "id" and falls back to "_id".
func (u *User) PrimaryID() string {
	if u == nil {
		return ""
	}
	if u.ID != "" {
		return u.ID
	}
	return u.MongoID
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the signup form.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
