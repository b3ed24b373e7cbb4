package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/restaurant-api/internal/application"
	"github.com/example/restaurant-api/internal/config"
	httptransport "github.com/example/restaurant-api/internal/http"
	"github.com/example/restaurant-api/internal/persistence/sqlite"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the restaurant API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer func() {
				if cerr := pool.Close(); cerr != nil {
					logger.Error("failed to close storage", "error", cerr)
				}
			}()

			if migrateUp {
				if err := sqlite.Migrate(ctx, pool); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
			}

			location, err := cfg.Location()
			if err != nil {
				return err
			}

			idGenerator := uuid.NewString
			tokenGenerator := func() string { return randomHex(32) }
			now := time.Now

			reservationRepo := newReservationRepositoryAdapter(sqlite.NewReservationRepository(pool, location, logger))
			ingredientRepo := newIngredientRepositoryAdapter(sqlite.NewIngredientRepository(pool))
			menuItemRepo := newMenuItemRepositoryAdapter(sqlite.NewMenuItemRepository(pool))
			credentialStore := newCredentialStoreAdapter(sqlite.NewUserRepository(pool))
			sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool))

			bookingCfg := application.BookingConfig{
				Capacity:   cfg.VenueCapacity,
				OpeningAt:  cfg.OpeningAt,
				ClosingAt:  cfg.ClosingAt,
				SlotLength: cfg.SlotLength,
				SlotStep:   cfg.SlotStep,
				Location:   location,
				DraftTTL:   cfg.DraftTTL,
			}

			bookingService := application.NewBookingService(reservationRepo, bookingCfg, idGenerator, now, logger)
			reservationService := application.NewReservationService(reservationRepo, bookingCfg, now, logger)
			menuService := application.NewMenuService(ingredientRepo, menuItemRepo, idGenerator, now, logger)
			orderService := application.NewOrderService(ingredientRepo, menuItemRepo, cfg.WhatsAppPhone, logger)
			authService := application.NewAuthService(credentialStore, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, cfg.ResetTokenTTL, cfg.SessionSecret, logger)

			var blockKey []byte
			if cfg.CookieBlockKey != "" {
				blockKey = []byte(cfg.CookieBlockKey)
			}
			cookies := httptransport.NewSessionCookies([]byte(cfg.CookieHashKey), blockKey)

			router := httptransport.NewRouter(httptransport.RouterConfig{
				Auth:         httptransport.NewAuthHandler(authService, cookies, logger),
				Booking:      httptransport.NewBookingHandler(bookingService, location, logger),
				Reservations: httptransport.NewReservationHandler(reservationService, location, logger),
				Menu:         httptransport.NewMenuHandler(menuService, logger),
				Orders:       httptransport.NewOrderHandler(orderService, logger),
				AdminMiddleware: []func(http.Handler) http.Handler{
					httptransport.RequireSession(authService, cookies, logger),
				},
				Middleware: []func(http.Handler) http.Handler{
					httptransport.RequestLogger(logger),
				},
			})

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("failed to shutdown server", "error", err)
				}
			}()

			logger.Info("restaurant API listening", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
