// Package bootstrap handles application initialization and lifecycle
// management for the gotrends service.
package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/gotrends/internal/logger"
	"github.com/jonesrussell/gotrends/internal/scheduler"
)

const version = "dev"

// Start initializes and starts the gotrends application.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Configuration store and report scanner
	store := SetupStore(cfg)
	scanner := SetupScanner(cfg)

	// Phase 3: Crawl request publisher (optional)
	publisher := SetupCrawlPublisher(cfg, log)

	// Phase 4: Crawl scheduler (optional, needs the publisher)
	if cfg.Scheduler.Enabled && publisher != nil {
		sched, schedErr := scheduler.New(cfg.Scheduler.CrawlSpec, publisher, log)
		if schedErr != nil {
			return fmt.Errorf("failed to create scheduler: %w", schedErr)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Phase 5: Setup and run HTTP server
	server := SetupHTTPServer(cfg, scanner, store, publisher, version, log)

	log.Info("Starting HTTP server",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
		logger.String("output_dir", scanner.OutputDir()),
	)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
