package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/store"
	"github.com/starford/raido/internal/taskservice"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// runMCP serves the task tools over stdio. The HTTP server, importer, and
// SSE broker stay down; an MCP host is the only caller.
func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	svc := taskservice.NewService(db, nil)
	return mcpserver.New(svc).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "raido",
		Usage:  "Personal task tracker with SQLite storage, search, statistics, and an import inbox",
		Action: runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve task tools over stdio for MCP hosts",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
