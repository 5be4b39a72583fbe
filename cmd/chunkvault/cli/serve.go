package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"chunkvault/internal/auth"
	"chunkvault/internal/gateway"
	"chunkvault/internal/router"
	"chunkvault/internal/sweeper"
)

func newServeCmd(logger *slog.Logger) *cobra.Command {
	var addr, wireAddr, jwtSecret, username, passwordHash, role, sweepCron string
	var tokenTTL, refreshTTL time.Duration
	var rps float64
	var burst int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jwtSecret == "" {
				return fmt.Errorf("--jwt-secret is required")
			}
			if username == "" || passwordHash == "" {
				return fmt.Errorf("--username and --password-hash are required")
			}

			eng, err := openEngine(logger)
			if err != nil {
				return err
			}

			users := gateway.StaticUserStore{
				username: {PasswordHash: passwordHash, Role: role},
			}
			tokens := auth.NewTokenService([]byte(jwtSecret), tokenTTL)
			gw := gateway.New(eng, users, tokens, rate.Limit(rps), burst, refreshTTL, logger)

			if wireAddr != "" {
				wl, err := router.Listen(cmd.Context(), wireAddr, router.New(eng), logger)
				if err != nil {
					return err
				}
				defer wl.Shutdown()
				logger.Info("wire listener accepting storage commands", "addr", wl.Addr())
			}

			if sweepCron != "" {
				sw, err := sweeper.New(eng, sweepCron, logger)
				if err != nil {
					return fmt.Errorf("start orphan sweeper: %w", err)
				}
				defer sw.Stop()
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           gw.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("gateway listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && err != http.ErrServerClosed {
					return fmt.Errorf("gateway: %w", err)
				}
			case <-ctx.Done():
				logger.Info("shutting down gateway")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				return srv.Shutdown(shutdownCtx)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&wireAddr, "wire-addr", "", "listen address for the text storage-command protocol (empty disables it)")
	cmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "HMAC secret for signing JWTs")
	cmd.Flags().StringVar(&username, "username", "", "gateway login username")
	cmd.Flags().StringVar(&passwordHash, "password-hash", "", "argon2id PHC hash for the gateway login password (see chunkvault hash-password)")
	cmd.Flags().StringVar(&role, "role", "operator", "role granted to the gateway user")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "issued token lifetime")
	cmd.Flags().DurationVar(&refreshTTL, "refresh-ttl", 7*24*time.Hour, "refresh token lifetime (0 disables /auth/refresh)")
	cmd.Flags().Float64Var(&rps, "rate-limit", 10, "requests per second allowed per client (0 disables limiting)")
	cmd.Flags().IntVar(&burst, "rate-burst", 20, "burst size for the per-client rate limiter")
	cmd.Flags().StringVar(&sweepCron, "sweep-cron", "", "six-field cron expression for the periodic orphan sweep (empty disables it)")
	return cmd
}
