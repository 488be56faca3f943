package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bookreview/internal/events"
	"bookreview/internal/stubserver"
	"bookreview/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

func newStubCommand(a *app) *cobra.Command {
	var (
		addr string
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stand-in for the backend",
		Long: "Run a local stand-in for the backend under /api. Point the client at it " +
			"with --api http://localhost:8080/api.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.StubAddr
			}

			srv := stubserver.New(stubserver.Config{
				JWTSecret: a.cfg.StubJWTSecret,
				Log:       a.log,
				AccessLog: true,
			})
			if seed {
				if err := stubserver.Seed(srv.Repo()); err != nil {
					return err
				}
				a.log.WithField("email", stubserver.DemoEmail).Info("seeded demo account")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from stub_addr)")
	cmd.Flags().BoolVar(&seed, "seed", false, "create a demo account with a few books")
	return cmd
}

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print change notices published by other sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.RabbitMQURL == "" {
				return errors.New("rabbitmq_url is not configured")
			}
			mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.cfg.RabbitMQURL, Exchange: a.cfg.EventsExchange}, a.log)
			if err != nil {
				return err
			}
			a.closers = append(a.closers, mq)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.log.WithField("exchange", a.cfg.EventsExchange).Info("watching for changes")
			err = mq.Consume(ctx, func(e events.Event) error {
				a.printf("%s  %-15s %s", e.At.Local().Format("15:04:05"), e.Kind, e.ID)
				if e.BookID != "" && e.BookID != e.ID {
					a.printf("  book %s", e.BookID)
				}
				a.printf("\n")
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
