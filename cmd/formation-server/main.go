// formation-server is the back-office API of the training organization:
// appointments, programme catalogue, learner records and contact messages.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gestionmax/formation-api/internal/config"
	"github.com/gestionmax/formation-api/internal/domain/apprenant"
	"github.com/gestionmax/formation-api/internal/domain/contact"
	"github.com/gestionmax/formation-api/internal/domain/programme"
	"github.com/gestionmax/formation-api/internal/domain/rendezvous"
	"github.com/gestionmax/formation-api/internal/platform/apperr"
	"github.com/gestionmax/formation-api/internal/platform/auth"
	"github.com/gestionmax/formation-api/internal/platform/db"
	"github.com/gestionmax/formation-api/internal/platform/middleware"
)

func main() {
	root := &cobra.Command{
		Use:   "formation-server",
		Short: "GestionMax Formation back-office API",
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			cancel()
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			e := buildServer(cfg, logger, pool)

			go func() {
				addr := ":" + cfg.Port
				logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server stopped")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func buildServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", db.HealthHandler(pool))

	// Repositories and services.
	programmeSvc := programme.NewService(programme.NewRepoPG(pool))
	rdvSvc := rendezvous.NewService(rendezvous.NewRepoPG(pool), programmeSvc)
	apprenantSvc := apprenant.NewService(apprenant.NewRepoPG(pool))
	contactSvc := contact.NewService(contact.NewRepoPG(pool))
	contactHandler := contact.NewHandler(contactSvc)

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	})

	// Public surface: the marketing-site contact form posts here.
	public := e.Group("/api/v1", rateLimit)
	contactHandler.RegisterPublicRoutes(public)

	// Admin surface.
	var authMW echo.MiddlewareFunc
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("development mode without JWT_SECRET, using dev auth")
		authMW = auth.DevMiddleware()
	} else {
		authMW = auth.Middleware(auth.Config{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
		})
	}
	api := e.Group("/api/v1", rateLimit, authMW)

	rendezvous.NewHandler(rdvSvc).RegisterRoutes(api)
	programme.NewHandler(programmeSvc).RegisterRoutes(api)
	apprenant.NewHandler(apprenantSvc).RegisterRoutes(api)
	contactHandler.RegisterAdminRoutes(api)

	return e
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error {
					applied, err := m.Up(ctx)
					if err != nil {
						return err
					}
					logger.Info().Int("applied", applied).Msg("migrations complete")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error {
					statuses, err := m.Status(ctx)
					if err != nil {
						return err
					}
					for _, s := range statuses {
						state := "pending"
						if s.Applied {
							state = "applied"
						}
						fmt.Printf("%3d  %-50s %s\n", s.Version, s.Name, state)
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func withMigrator(fn func(context.Context, *db.Migrator, zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	m := db.NewMigrator(pool, cfg.MigrationsDir)
	if err := m.EnsureMigrationsTable(ctx); err != nil {
		return err
	}
	return fn(ctx, m, logger)
}
