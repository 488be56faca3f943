package cli

import (
	"bookreview/internal/models"
	"bookreview/internal/services"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var creds models.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			if creds.Email, err = a.valueOrPrompt(creds.Email, "Email"); err != nil {
				return err
			}
			if creds.Password, err = a.valueOrPrompt(creds.Password, "Password"); err != nil {
				return err
			}

			auth, err := services.NewAuthService(env).Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			a.printf("Logged in as %s\n", displayName(auth.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func newSignupCommand(a *app) *cobra.Command {
	var reg models.Registration

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			if reg.Name, err = a.valueOrPrompt(reg.Name, "Name"); err != nil {
				return err
			}
			if reg.Email, err = a.valueOrPrompt(reg.Email, "Email"); err != nil {
				return err
			}
			if reg.Password, err = a.valueOrPrompt(reg.Password, "Password"); err != nil {
				return err
			}

			auth, err := services.NewAuthService(env).Signup(cmd.Context(), reg)
			if err != nil {
				return err
			}
			a.printf("Welcome, %s\n", displayName(auth.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			if _, err := services.NewAuthService(env).Logout(); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			user := env.Session.User()
			if user == nil {
				a.printf("Not logged in\n")
				return nil
			}
			a.printf("%s <%s> (%s)\n", displayName(*user), user.Email, user.PrimaryID())
			return nil
		},
	}
}

func newThemeCommand(a *app) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Toggle between the light and dark theme",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			env, err := a.setup()
			if err != nil {
				return err
			}
			if show {
				a.printf("%s\n", env.Session.Theme())
				return nil
			}
			theme, err := env.Session.ToggleTheme()
			if err != nil {
				return err
			}
			a.printf("Theme: %s\n", theme)
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the current theme without changing it")
	return cmd
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
