// Package catalog holds the list computations behind the views: filtering,
// pagination, rating histograms and the profile aggregation. Everything here
// works on data that has already been fetched.
package catalog

import (
	"strings"

	"bookreview/internal/models"

	"github.com/samber/lo"
)

// PageSize is the number of books shown per list page.
const PageSize = 6

// Filter is the set of list predicates. All non-empty fields must match.
//
// Search matches title OR author, and Author narrows by author again, so
// filling both ANDs two author conditions. This mirrors the web client.
type Filter struct {
	Search string
	Genre  string
	Author string
	Year   string
}

// Match applies every predicate, case-insensitively, as substring tests.
func (f Filter) Match(b models.Book) bool {
	search := strings.ToLower(f.Search)
	title := strings.ToLower(b.Title)
	author := strings.ToLower(b.Author)

	return (strings.Contains(title, search) || strings.Contains(author, search)) &&
		strings.Contains(strings.ToLower(b.Genre), strings.ToLower(f.Genre)) &&
		strings.Contains(author, strings.ToLower(f.Author)) &&
		strings.Contains(b.Year.String(), f.Year)
}

// FilterBooks keeps the books matching f, preserving order.
func FilterBooks(books []models.Book, f Filter) []models.Book {
	return lo.Filter(books, func(b models.Book, _ int) bool {
		return f.Match(b)
	})
}

// TotalPages is ceil(n/size); zero for an empty list.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page of books. Out-of-range pages are empty.
func Paginate(books []models.Book, page, size int) []models.Book {
	if page < 1 || size <= 0 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(books) {
		return nil
	}
	end := min(start+size, len(books))
	return books[start:end]
}

// Pages splits books into consecutive pages of at most size items.
func Pages(books []models.Book, size int) [][]models.Book {
	if size <= 0 || len(books) == 0 {
		return nil
	}
	return lo.Chunk(books, size)
}
