package models

// Review is one star rating with a comment. User is the author reference,
// which may be a bare id or an embedded user document.
type Review struct {
	ID      string `json:"_id"`
	Book    Ref    `json:"book"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	User    Ref    `json:"user"`
}

// ReviewInput is the body of POST /reviews.
type ReviewInput struct {
	BookID  string `json:"bookId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// ReviewUpdate is the body of PUT /reviews/:id.
type ReviewUpdate struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}
