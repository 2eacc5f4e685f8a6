package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/cvdoc/internal/assist"
	"github.com/jonathan/cvdoc/internal/config"
	"github.com/jonathan/cvdoc/internal/server"
	"github.com/jonathan/cvdoc/internal/store"
)

var (
	serveConfigFile string
	servePort       int
	serveBackend    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for document normalization, editing actions, undo/redo, checkpoints, and AI suggestions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveBackend, "backend", "", "Persistence backend: memory, redis, or postgres (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveBackend != "" {
		cfg.Backend = serveBackend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	documentStore, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var assistant *assist.Assistant
	if cfg.APIKey != "" {
		generator, err := assist.NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return fmt.Errorf("failed to create AI client: %w", err)
		}
		defer generator.Close()
		assistant = assist.New(generator)
	} else {
		log.Println("GEMINI_API_KEY not set; AI suggestion endpoints disabled")
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Store:     documentStore,
		Assistant: assistant,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}

// loadConfig builds the effective configuration: file, then env, then defaults
func loadConfig() (config.Config, error) {
	cfg := config.Config{}
	if serveConfigFile != "" {
		loaded, err := config.LoadFile(serveConfigFile)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	cfg.MergeDefaults(config.Default())
	return cfg, nil
}

// openStore connects the configured persistence backend
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		redisStore, err := store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisStore, func() { _ = redisStore.Close() }, nil
	case config.BackendPostgres:
		pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return pgStore, pgStore.Close, nil
	default:
		log.Println("Using in-memory store; documents will not survive restarts")
		return store.NewMemory(), func() {}, nil
	}
}
