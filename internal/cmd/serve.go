package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Quinntas/max/internal/agent"
	"github.com/Quinntas/max/internal/config"
	"github.com/Quinntas/max/internal/dealership"
	"github.com/Quinntas/max/internal/inventory"
	"github.com/Quinntas/max/internal/llm"
	"github.com/Quinntas/max/internal/pipeline"
	"github.com/Quinntas/max/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Starts the HTTP server with the JSON qualification API, the inbound
SMS webhook, and the health endpoint. When an inventory feed is
configured it is imported on startup and re-imported on the feed
schedule.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	registry, err := dealership.Load(cfg.DealershipFile)
	if err != nil {
		return err
	}
	log.Info().Int("dealerships", registry.Len()).Msg("dealership_registry_loaded")

	inv, cleanup, err := buildInventory(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	agents := agent.NewCache()

	pipeOpts := []pipeline.Option{pipeline.WithAgentCache(agents)}
	if cfg.Model != "" {
		pipeOpts = append(pipeOpts, pipeline.WithModel(cfg.Model))
	}
	pipe := pipeline.New(provider, inv, pipeOpts...)

	srv := server.New(pipe, registry,
		server.WithAgentCache(agents),
		server.WithWebhookAuth(cfg.WebhookAuthToken, cfg.WebhookBaseURL),
	)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr).
			Str("provider", provider.Name()).
			Msg("server_listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIBaseURL != "" {
			return llm.NewOpenAIProviderWithBaseURL(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
		}
		return llm.NewOpenAIProvider(cfg.OpenAIAPIKey), nil
	case "ollama":
		return llm.NewOllamaProvider(cfg.OllamaBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown llm_provider %q", cfg.LLMProvider)
	}
}

// buildInventory picks the inventory backend. With a feed configured, the
// SQLite store is used and the feed is imported now and on the cron
// schedule; without one, a small static catalog keeps the pipeline usable
// for development.
func buildInventory(ctx context.Context, cfg *config.Config) (inventory.Service, func(), error) {
	if cfg.InventoryFeed == "" {
		log.Info().Msg("inventory_using_static_catalog")
		return inventory.NewStaticService(), func() {}, nil
	}

	store, err := inventory.NewStore(cfg.InventoryDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening inventory store: %w", err)
	}

	n, err := store.ImportFeed(ctx, cfg.InventoryFeed)
	if err != nil {
		// Startup import failure is not fatal: the store may still hold
		// the previous import.
		log.Warn().Err(err).Str("feed", cfg.InventoryFeed).Msg("inventory_import_failed")
	} else {
		log.Info().Int("vehicles", n).Msg("inventory_imported")
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.FeedSchedule, func() {
		importCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		n, err := store.ImportFeed(importCtx, cfg.InventoryFeed)
		if err != nil {
			log.Error().Err(err).Str("feed", cfg.InventoryFeed).Msg("inventory_reimport_failed")
			return
		}
		log.Info().Int("vehicles", n).Msg("inventory_reimported")
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("invalid feed_schedule %q: %w", cfg.FeedSchedule, err)
	}
	c.Start()

	cleanup := func() {
		c.Stop()
		_ = store.Close()
	}
	return store, cleanup, nil
}
