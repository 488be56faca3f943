// Package cli is the terminal front end: one cobra command per screen or
// action of the web client, all built on the services view models.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bookreview/internal/apiclient"
	"bookreview/internal/config"
	"bookreview/internal/events"
	"bookreview/internal/logger"
	"bookreview/internal/repositories"
	"bookreview/internal/services"
	"bookreview/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg *config.Config
	log *logrus.Logger
	out io.Writer
	in  *bufio.Reader

	// overrides, set by tests
	httpClient *http.Client
	state      repositories.StateRepository

	closers []io.Closer
	env     *services.Env
}

// Execute runs the root command against os.Args and releases whatever the
// command opened.
func Execute() error {
	a := &app{}
	err := newRootCommand(a).Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "bookreview",
		Short:         "Browse books and share star-rated reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := config.New()
			if err := v.BindPFlag("api_base_url", cmd.Root().PersistentFlags().Lookup("api")); err != nil {
				return err
			}
			if err := v.BindPFlag("log_level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
				return err
			}
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			if a.log == nil {
				a.log = logger.New(cfg.LogLevel)
			}
			a.out = cmd.OutOrStdout()
			a.in = bufio.NewReader(cmd.InOrStdin())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("api", "", "backend base URL")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newLoginCommand(a),
		newSignupCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newThemeCommand(a),
		newBooksCommand(a),
		newBookCommand(a),
		newReviewCommand(a),
		newProfileCommand(a),
		newStubCommand(a),
		newWatchCommand(a),
	)
	return root
}

// setup opens the session store and builds the Env on first use.
func (a *app) setup() (*services.Env, error) {
	if a.env != nil {
		return a.env, nil
	}

	state := a.state
	if state == nil {
		db, err := repositories.OpenSQLiteState(a.cfg.StatePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		state = db
	}

	session, err := services.LoadSession(state)
	if err != nil {
		return nil, err
	}

	opts := []apiclient.Option{apiclient.WithLogger(a.log)}
	if a.httpClient != nil {
		opts = append(opts, apiclient.WithHTTPClient(a.httpClient))
	}
	client := apiclient.New(a.cfg.APIBaseURL, session, opts...)

	var publisher events.Publisher
	if a.cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.cfg.RabbitMQURL, Exchange: a.cfg.EventsExchange}, a.log)
		if err != nil {
			a.log.WithError(err).Warn("event publishing disabled")
		} else {
			a.closers = append(a.closers, mq)
			publisher = mq
		}
	}

	a.env = services.NewEnv(client, session, publisher, a.log)
	return a.env, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.env = nil
	return errors.Join(errs...)
}

// checkID warns about ids that cannot be backend document ids; the request
// is still sent.
func (a *app) checkID(kind, id string) {
	if !apiclient.IsObjectID(id) {
		a.log.WithField(kind, id).Warn("id does not look like a document id")
	}
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt reads one line, used when a required flag was left out.
func (a *app) prompt(label string) (string, error) {
	a.printf("%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// valueOrPrompt returns v, or asks for it when empty.
func (a *app) valueOrPrompt(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return a.prompt(label)
}

// confirm asks a yes/no question; anything but y/yes is no.
func (a *app) confirm(question string) (bool, error) {
	answer, err := a.prompt(question + " [y/N]")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Report formats err for the terminal, including where the user should go
// next when the error carries a route.
func Report(w io.Writer, err error) {
	var ue *services.UserError
	if errors.As(err, &ue) {
		fmt.Fprintf(w, "Error: %s\n", ue.Message)
		if hint := routeHint(ue.Redirect); hint != "" {
			fmt.Fprintln(w, hint)
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func routeHint(r services.Route) string {
	switch {
	case r == services.RouteLogin:
		return "Run `bookreview login` first."
	case r == services.RouteProfile:
		return "See `bookreview profile`."
	case r == services.RouteHome:
		return "See `bookreview books`."
	case strings.HasPrefix(string(r), "/book/"):
		return fmt.Sprintf("See `bookreview book show %s`.", strings.TrimPrefix(string(r), "/book/"))
	}
	return ""
}
