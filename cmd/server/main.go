package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/azybler/map_instructions/pkg/api"
	"github.com/azybler/map_instructions/pkg/config"
	"github.com/azybler/map_instructions/pkg/instructions"
	"github.com/azybler/map_instructions/pkg/logger"
	"github.com/azybler/map_instructions/pkg/phrase"
	"github.com/azybler/map_instructions/pkg/roads"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	envFile := flag.String("env", ".env", "Path to .env file (ignored if missing)")
	addr := flag.String("addr", "", "Listen address, overrides config (e.g. :8080)")
	localesDir := flag.String("locales-dir", "", "Directory of phrase dictionaries, overrides config")
	roadsPath := flag.String("roads", "", "Path to preprocessed roads binary, overrides config")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin, overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *localesDir != "" {
		cfg.Locales.Dir = *localesDir
	}
	if *roadsPath != "" {
		cfg.Roads.Path = *roadsPath
	}
	if *corsOrigin != "" {
		cfg.Server.CORSOrigin = *corsOrigin
	}

	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()

	opts := []phrase.CatalogOption{phrase.WithFallback(cfg.Locales.Default)}
	if cfg.Locales.Dir != "" {
		opts = append(opts, phrase.WithDir(cfg.Locales.Dir))
	}
	catalog := phrase.NewCatalog(opts...)
	registry := instructions.NewRegistry(catalog)

	// Fail at startup rather than on the first request.
	if _, err := registry.Get(cfg.Locales.Default); err != nil {
		logger.Errorf("Failed to load default dictionary: %v", err)
		os.Exit(1)
	}

	if cfg.Locales.Watch {
		w, err := phrase.NewWatcher(cfg.Locales.Dir, cfg.Locales.Debounce, func() {
			if err := registry.ReloadAll(); err != nil {
				logger.Warningf("Dictionary reload incomplete: %v", err)
			}
		})
		if err != nil {
			logger.Errorf("Failed to watch %s: %v", cfg.Locales.Dir, err)
			os.Exit(1)
		}
		w.Start(context.Background())
		defer w.Stop()
		logger.Info("Watching dictionaries", "dir", cfg.Locales.Dir)
	}

	var enricher *roads.Enricher
	if cfg.Roads.Path != "" {
		logger.Infof("Loading roads from %s...", cfg.Roads.Path)
		rs, err := roads.ReadBinary(cfg.Roads.Path)
		if err != nil {
			logger.Errorf("Failed to load roads: %v", err)
			os.Exit(1)
		}
		x := roads.NewIndex(rs)
		enricher = roads.NewEnricher(x, cfg.Roads.MaxDistance)
		logger.Info("Road index ready", "roads", len(rs), "segments", x.Segments())
	}

	messages, err := api.NewMessages()
	if err != nil {
		logger.Errorf("Failed to load API messages: %v", err)
		os.Exit(1)
	}

	logger.Infof("Ready in %s", time.Since(start).Round(time.Millisecond))

	srvCfg := api.DefaultConfig(cfg.Server.Addr)
	srvCfg.CORSOrigin = cfg.Server.CORSOrigin
	srvCfg.ReadTimeout = cfg.Server.ReadTimeout
	srvCfg.WriteTimeout = cfg.Server.WriteTimeout
	srvCfg.RequestTimeout = cfg.Server.RequestTimeout
	srvCfg.MaxConcurrent = cfg.Server.MaxConcurrent

	handlers := api.NewHandlers(registry, enricher, messages)
	srv := api.NewServer(srvCfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		logger.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
