package services

import (
	"context"
	"sync"

	"bookreview/internal/catalog"
	"bookreview/internal/models"
)

// BookListView is the home screen: the whole collection fetched once, then
// filtered and paged locally.
type BookListView struct {
	env           *Env
	resetOnFilter bool

	mu      sync.RWMutex
	books   []models.Book
	filter  catalog.Filter
	page    int
	loading bool
}

// NewBookListView creates the view. With resetPageOnFilter false a filter
// change keeps the current page, which may then be empty.
func NewBookListView(env *Env, resetPageOnFilter bool) *BookListView {
	return &BookListView{
		env:           env,
		resetOnFilter: resetPageOnFilter,
		page:          1,
		loading:       true,
	}
}

// Load fetches the collection. On failure the list stays empty.
func (v *BookListView) Load(ctx context.Context) error {
	books, err := v.env.Client.ListBooks(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.env.Log.WithError(err).Error("error fetching books")
		v.books = nil
		return err
	}
	v.books = books
	return nil
}

// Loading is true until the first Load returns.
func (v *BookListView) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// SetFilter replaces the predicates.
func (v *BookListView) SetFilter(f catalog.Filter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.resetOnFilter && f != v.filter {
		v.page = 1
	}
	v.filter = f
}

// Filter returns the current predicates.
func (v *BookListView) Filter() catalog.Filter {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// Filtered is the whole filtered sequence.
func (v *BookListView) Filtered() []models.Book {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return catalog.FilterBooks(v.books, v.filter)
}

// TotalPages counts pages of the filtered sequence.
func (v *BookListView) TotalPages() int {
	return catalog.TotalPages(len(v.Filtered()), catalog.PageSize)
}

// CurrentPage is 1-based.
func (v *BookListView) CurrentPage() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page
}

// SetPage jumps to page n, clamped to the available pages.
func (v *BookListView) SetPage(n int) {
	total := v.TotalPages()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = clampPage(n, total)
}

// Next moves forward one page, stopping at the last.
func (v *BookListView) Next() {
	total := v.TotalPages()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = clampPage(v.page+1, total)
}

// Prev moves back one page, stopping at the first.
func (v *BookListView) Prev() {
	total := v.TotalPages()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = clampPage(v.page-1, total)
}

// Page returns the books on the current page.
func (v *BookListView) Page() []models.Book {
	filtered := v.Filtered()
	return catalog.Paginate(filtered, v.CurrentPage(), catalog.PageSize)
}

func clampPage(n, total int) int {
	return max(1, min(n, max(total, 1)))
}
