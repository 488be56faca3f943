package cli

import (
	"context"

	"bookreview/internal/services"

	"github.com/spf13/cobra"
)

func newProfileCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your books, your reviews and your rating distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}

			view := services.NewProfileView(env)
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			renderProfile(a, view)
			return nil
		},
	}
	cmd.AddCommand(
		newProfileDeleteCommand(a, "delete-book", "book", "Delete one of your books", (*services.ProfileView).DeleteBook),
		newProfileDeleteCommand(a, "delete-review", "review", "Delete one of your reviews", (*services.ProfileView).DeleteReview),
	)
	return cmd
}

func renderProfile(a *app, view *services.ProfileView) {
	user := view.User()
	a.printf("%s <%s>\n\n", displayName(*user), user.Email)

	a.printf("My books\n")
	if books := view.OwnBooks(); len(books) > 0 {
		renderBookTable(a.out, books)
	} else {
		a.printf("  You have not added any books.\n")
	}

	a.printf("\nMy reviews\n")
	if reviews := view.Reviews(); len(reviews) > 0 {
		renderAuthoredReviews(a.out, reviews)
		a.printf("\nRating distribution\n")
		renderDistribution(a.out, view.Distribution())
	} else {
		a.printf("  You have not written any reviews.\n")
	}
}

type profileDelete func(*services.ProfileView, context.Context, string) (bool, error)

func newProfileDeleteCommand(a *app, use, kind, short string, del profileDelete) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   use + " <" + kind + "-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			a.checkID(kind, args[0])

			if !yes {
				ok, err := a.confirm("Delete this " + kind + "?")
				if err != nil || !ok {
					return err
				}
			}
			return deleteFromProfile(cmd, a, env, args[0], del)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// deleteFromProfile loads the profile, deletes id through it and prints what
// remains.
func deleteFromProfile(cmd *cobra.Command, a *app, env *services.Env, id string, del profileDelete) error {
	view := services.NewProfileView(env)
	defer view.Close()
	if err := view.Load(cmd.Context()); err != nil {
		return err
	}

	removed, err := del(view, cmd.Context(), id)
	if err != nil {
		return err
	}
	if removed {
		a.printf("Deleted\n\n")
	} else {
		a.printf("Nothing was deleted\n\n")
	}
	renderProfile(a, view)
	return nil
}
