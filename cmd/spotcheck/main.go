package main

import (
	"fmt"
	"os"

	"spotcheck/internal/cli"
	"spotcheck/internal/config"
	"spotcheck/internal/logging"
	"spotcheck/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error configuring logging: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.Paths.DatabasePath)
	if err != nil {
		logger.Error("failed to open run archive", "path", cfg.Paths.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	root := cli.NewRoot(cfg, logger, store)
	if err := cli.NewRootCmd(root).Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
