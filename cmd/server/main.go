package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/ytakahashi/task-calendar/internal/config"
	"github.com/ytakahashi/task-calendar/internal/handlers"
	"github.com/ytakahashi/task-calendar/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	app := &cli.App{
		Name:  "task-calendar",
		Usage: "Calendar events and todo lists over a document store.",
		Commands: []*cli.Command{
			serveCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API server.",
		Flags: config.Flags(),
		Action: func(c *cli.Context) error {
			cfg, err := config.FromContext(c)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStore(ctx, cfg)
			if err != nil {
				logger.Error("Failed to connect to document store", "driver", cfg.Driver, "error", err)
				return err
			}
			defer store.Close()
			logger.Info("Connected to document store", "driver", cfg.Driver)

			planner := services.NewPlanner(store, logger)
			e := handlers.NewServer(handlers.NewHandler(planner, logger))
			if cfg.ServeStatic() {
				e.Static("/", cfg.StaticDir)
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server starting", "addr", cfg.Addr())
				if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed to start: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func openStore(ctx context.Context, cfg *config.Config) (services.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return services.NewMongoStore(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverFirestore:
		return services.NewFirestoreStore(ctx, cfg.ProjectID)
	default:
		return services.NewMemoryStore(), nil
	}
}
