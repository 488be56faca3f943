package stubserver

import (
	"fmt"

	"bookreview/internal/models"
	"bookreview/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// Demo credentials created by Seed.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo1234"
)

// placeholder cover: a 1x1 transparent PNG
const demoImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// Seed fills repo with a demo account, a few books and reviews.
func Seed(repo repositories.LibraryRepository) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	demo := &repositories.Account{Name: "Demo Reader", Email: DemoEmail, PasswordHash: string(hash)}
	if err := repo.CreateAccount(demo); err != nil {
		return fmt.Errorf("seed account: %w", err)
	}

	books := []models.Book{
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction", Year: 1969},
		{Title: "Beloved", Author: "Toni Morrison", Genre: "Literary Fiction", Year: 1987},
		{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery", Year: 1980},
		{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Genre: "Fantasy", Year: 1968},
	}
	for i := range books {
		books[i].Image = demoImage
		books[i].Description = fmt.Sprintf("%s by %s.", books[i].Title, books[i].Author)
		books[i].Owner = models.RefID(demo.ID)
		if err := repo.CreateBook(&books[i]); err != nil {
			return fmt.Errorf("seed book %q: %w", books[i].Title, err)
		}
	}

	reviews := []models.Review{
		{Book: models.RefID(books[0].ID), Rating: 5, Comment: "A landmark."},
		{Book: models.RefID(books[1].ID), Rating: 4, Comment: "Haunting."},
		{Book: models.RefID(books[3].ID), Rating: 3, Comment: "Slow start, lovely ending."},
	}
	for i := range reviews {
		reviews[i].User = models.EmbeddedRef(demo.ID, demo.Name, "")
		if err := repo.CreateReview(&reviews[i]); err != nil {
			return fmt.Errorf("seed review: %w", err)
		}
	}
	return nil
}
