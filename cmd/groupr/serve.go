package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/groupr/internal/config"
	"github.com/vbonduro/groupr/internal/db"
	"github.com/vbonduro/groupr/internal/imagestore/local"
	"github.com/vbonduro/groupr/internal/seed"
	"github.com/vbonduro/groupr/internal/service"
	"github.com/vbonduro/groupr/internal/store"
	"github.com/vbonduro/groupr/internal/suggest"
	claudesuggest "github.com/vbonduro/groupr/internal/suggest/claude"
	ollamasuggest "github.com/vbonduro/groupr/internal/suggest/ollama"
	"github.com/vbonduro/groupr/internal/web"
	"github.com/vbonduro/groupr/internal/web/templates"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.ListenAddr = addr
			}
			return serve(a.cfg, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
	return cmd
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeDB(database, logger)

	groupStore := store.NewGroupStore(database)
	memberStore := store.NewMemberStore(database)
	imageStore := store.NewImageStore(database)

	imageStg, err := local.New(cfg.ImagePath)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	groupService := service.NewGroupService(groupStore, memberStore, imageStore, imageStg, newSuggester(cfg, logger), logger)
	loader := seed.NewLoader(groupStore, memberStore, logger)
	server := web.NewServer(groupService, loader, templates.FS, web.Options{
		ClerkPublishableKey: cfg.ClerkPublishableKey,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
	}, logger)

	return server.ListenAndServe(cfg.ListenAddr)
}

// newSuggester returns nil when descriptions should not be suggested.
func newSuggester(cfg *config.Config, logger *slog.Logger) suggest.Suggester {
	var backend suggest.Suggester
	switch cfg.SuggestBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when SUGGEST_BACKEND=claude; suggestions disabled")
			return nil
		}
		logger.Info("using Claude suggestion backend", "model", cfg.ClaudeModel)
		backend = claudesuggest.New(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama suggestion backend", "model", cfg.OllamaModel)
		backend = ollamasuggest.New(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("description suggestions disabled")
		return nil
	}
	return suggest.NewThrottled(backend, cfg.SuggestRPS, 1)
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
