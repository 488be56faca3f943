package cli

import (
	"bookreview/internal/catalog"
	"bookreview/internal/models"
	"bookreview/internal/services"

	"github.com/spf13/cobra"
)

func newBooksCommand(a *app) *cobra.Command {
	var (
		filter catalog.Filter
		page   int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books, filtered and paged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}

			view := services.NewBookListView(env, a.cfg.ResetPageOnFilter)
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			view.SetFilter(filter)

			if all {
				renderBookTable(a.out, view.Filtered())
				return nil
			}
			view.SetPage(page)
			books := view.Page()
			if len(books) == 0 {
				a.printf("No books found.\n")
				return nil
			}
			renderBookTable(a.out, books)
			a.printf("\nPage %d of %d\n", view.CurrentPage(), max(view.TotalPages(), 1))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "match title or author")
	cmd.Flags().StringVar(&filter.Genre, "genre", "", "match genre")
	cmd.Flags().StringVar(&filter.Author, "author", "", "match author")
	cmd.Flags().StringVar(&filter.Year, "year", "", "match year")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&all, "all", false, "print every matching book instead of one page")
	return cmd
}

func newBookCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Show, add or edit a single book",
	}
	cmd.AddCommand(newBookShowCommand(a), newBookAddCommand(a), newBookEditCommand(a))
	return cmd
}

func newBookShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book with its reviews and rating histogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			a.checkID("book", args[0])

			view := services.NewBookDetailView(env, args[0])
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			renderBook(a.out, view.Book(), view.Histogram(), view.CanModify)
			return nil
		},
	}
}

// bookFlags binds the editable book fields. year is kept as text so it goes
// through the same parsing as the form.
type bookFlags struct {
	title, author, genre, year, description, image string
}

func (f *bookFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.author, "author", "", "author")
	cmd.Flags().StringVar(&f.genre, "genre", "", "genre")
	cmd.Flags().StringVar(&f.year, "year", "", "publication year")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.image, "image", "", "path to the cover image")
}

// apply copies the flags that were set onto in.
func (f *bookFlags) apply(cmd *cobra.Command, in *models.BookInput) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("title") {
		in.Title = f.title
	}
	if set("author") {
		in.Author = f.author
	}
	if set("genre") {
		in.Genre = f.genre
	}
	if set("year") {
		in.Year = services.ParseYear(f.year)
	}
	if set("description") {
		in.Description = f.description
	}
}

func newBookAddCommand(a *app) *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}

			form := services.NewAddBookForm(env)
			flags.apply(cmd, &form.Input)
			if flags.image != "" {
				if err := form.AttachImage(flags.image); err != nil {
					return err
				}
				a.printf("Cover: %s\n", form.PreviewURL)
			}

			if _, err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			a.printf("Added %q\n", form.Input.Title)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newBookEditCommand(a *app) *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Edit a book you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			a.checkID("book", args[0])

			form := services.NewEditBookForm(env, args[0])
			if err := form.Load(cmd.Context()); err != nil {
				return err
			}
			flags.apply(cmd, &form.Input)
			if flags.image != "" {
				dataURL, _, err := services.EncodeImageFile(flags.image)
				if err != nil {
					return err
				}
				form.Input.Image = dataURL
			}

			if _, err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			a.printf("Updated %q\n", form.Input.Title)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}
