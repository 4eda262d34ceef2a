package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

const (
	DriverMemory    = "memory"
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
)

// Config holds the server settings. Every field has a flag and an
// environment variable; flags win.
type Config struct {
	Port            string
	Driver          string
	MongoURI        string
	MongoDatabase   string
	ProjectID       string
	StaticDir       string
	LogLevel        string
	ShutdownTimeout time.Duration
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "port", Value: "3000", EnvVars: []string{"PORT"}, Usage: "HTTP listen port"},
		&cli.StringFlag{Name: "store", Value: DriverMemory, EnvVars: []string{"STORE_DRIVER"}, Usage: "document store: memory, mongo or firestore"},
		&cli.StringFlag{Name: "mongodb-uri", Value: "mongodb://localhost:27017", EnvVars: []string{"MONGODB_URI"}, Usage: "MongoDB connection string"},
		&cli.StringFlag{Name: "mongodb-database", Value: "calendar_app", EnvVars: []string{"MONGODB_DATABASE"}, Usage: "MongoDB database name"},
		&cli.StringFlag{Name: "project", EnvVars: []string{"GOOGLE_CLOUD_PROJECT"}, Usage: "Google Cloud project for Firestore"},
		&cli.StringFlag{Name: "static-dir", Value: "public", EnvVars: []string{"STATIC_DIR"}, Usage: "directory served at / when it exists"},
		&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}, Usage: "debug, info, warn or error"},
		&cli.DurationFlag{Name: "shutdown-timeout", Value: 10 * time.Second, EnvVars: []string{"SHUTDOWN_TIMEOUT"}, Usage: "grace period for in-flight requests"},
	}
}

func FromContext(c *cli.Context) (*Config, error) {
	cfg := &Config{
		Port:            c.String("port"),
		Driver:          strings.ToLower(c.String("store")),
		MongoURI:        c.String("mongodb-uri"),
		MongoDatabase:   c.String("mongodb-database"),
		ProjectID:       c.String("project"),
		StaticDir:       c.String("static-dir"),
		LogLevel:        c.String("log-level"),
		ShutdownTimeout: c.Duration("shutdown-timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	switch c.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo store")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE is required for the mongo store")
		}
	case DriverFirestore:
		if c.ProjectID == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable is required for the firestore store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Driver)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ServeStatic reports whether the static directory exists.
func (c *Config) ServeStatic() bool {
	if c.StaticDir == "" {
		return false
	}
	info, err := os.Stat(c.StaticDir)
	return err == nil && info.IsDir()
}

func NewLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
