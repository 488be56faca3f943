package cli

import (
	"bookreview/internal/services"

	"github.com/spf13/cobra"
)

func newReviewCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Add, edit or delete your reviews",
	}
	cmd.AddCommand(newReviewAddCommand(a), newReviewEditCommand(a), newReviewDeleteCommand(a))
	return cmd
}

func newReviewAddCommand(a *app) *cobra.Command {
	var (
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "add <book-id>",
		Short: "Review a book",
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
			view.SetDraft(rating, comment)
			if err := view.SubmitReview(cmd.Context()); err != nil {
				return err
			}
			renderBook(a.out, view.Book(), view.Histogram(), view.CanModify)
			return nil
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "stars, 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review text")
	return cmd
}

func newReviewEditCommand(a *app) *cobra.Command {
	var (
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "edit <review-id>",
		Short: "Change the rating or comment of your review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			a.checkID("review", args[0])

			form := services.NewEditReviewForm(env, args[0])
			if err := form.Load(cmd.Context()); err != nil {
				return err
			}
			if cmd.Flags().Changed("rating") {
				form.Input.Rating = rating
			}
			if cmd.Flags().Changed("comment") {
				form.Input.Comment = comment
			}
			if _, err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			a.printf("Review updated\n")
			return nil
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "stars, 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review text")
	return cmd
}

func newReviewDeleteCommand(a *app) *cobra.Command {
	var (
		bookID string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete one of your reviews",
		Long: "Delete one of your reviews. With --book the book page is reloaded and " +
			"shown afterwards; without it the review is removed through the profile.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			reviewID := args[0]
			a.checkID("review", reviewID)

			if !yes {
				ok, err := a.confirm("Delete this review?")
				if err != nil || !ok {
					return err
				}
			}

			if bookID == "" {
				return deleteFromProfile(cmd, a, env, reviewID, (*services.ProfileView).DeleteReview)
			}

			view := services.NewBookDetailView(env, bookID)
			defer view.Close()
			if err := view.DeleteReview(cmd.Context(), reviewID); err != nil {
				return err
			}
			a.printf("Review deleted\n")
			renderBook(a.out, view.Book(), view.Histogram(), view.CanModify)
			return nil
		},
	}
	cmd.Flags().StringVar(&bookID, "book", "", "book the review belongs to")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
