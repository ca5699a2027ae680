package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prudhvinik1/presence/internal/handlers"
	"github.com/prudhvinik1/presence/internal/models"
	"github.com/prudhvinik1/presence/internal/services"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func serveCommand(logger zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the stale presence sweeper",
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithContext(ctx)

			deps, err := newDependencies(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			router := handlers.NewRouter(handlers.RouterConfig{
				Logger:         logger,
				Verifier:       deps.Verifier,
				Presence:       deps.Presence,
				AllowedOrigins: deps.Config.AllowedOrigins,
			})

			server := &http.Server{
				Addr:              fmt.Sprintf(":%s", deps.Config.ServerPort),
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Info().Str("addr", server.Addr).Dur("window", deps.Presence.Window()).Msg("starting server")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				return services.NewSweeper(deps.Presence, deps.Config.SweepInterval).Run(ctx)
			})

			g.Go(func() error {
				<-ctx.Done()
				logger.Info().Msg("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	}
}

func sweepCommand(logger zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "evict stale presence once and exit",
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)

			deps, err := newDependencies(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			removed, err := deps.Presence.Sweep(ctx)
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}
			logger.Info().Int64("removed", removed).Dur("window", deps.Presence.Window()).Msg("sweep complete")
			return nil
		},
	}
}

func issueTokenCommand(logger zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "issue-token",
		Usage: "open a session for a user and print a bearer token (development)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "directory user id to issue the token for",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)

			deps, err := newDependencies(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			issuer, ok := deps.Verifier.(*services.JWTVerifier)
			if !ok {
				return errors.New("issue-token requires AUTH_MODE=jwt")
			}

			token, expiresAt, err := issuer.IssueToken(ctx, c.String("user"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			logger.Info().Str("user_id", c.String("user")).Time("expires_at", expiresAt).Msg("token issued")
			return nil
		},
	}
}

func revokeSessionsCommand(logger zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "revoke-sessions",
		Usage: "end every session of a user and clear their presence",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "directory user id whose sessions are revoked",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)
			userID := c.String("user")

			deps, err := newDependencies(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			verifier, ok := deps.Verifier.(*services.JWTVerifier)
			if !ok {
				return errors.New("revoke-sessions requires AUTH_MODE=jwt")
			}

			revoked, err := verifier.RevokeAll(ctx, userID)
			if err != nil {
				return err
			}
			if err := deps.Presence.SignOut(ctx, models.Identity{UserID: userID}); err != nil {
				return fmt.Errorf("failed to clear presence: %w", err)
			}
			logger.Info().Str("user_id", userID).Int("sessions", revoked).Msg("sessions revoked")
			return nil
		},
	}
}
