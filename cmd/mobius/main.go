// Package main is the entry point for the Möbius paper viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/mobius-paper/internal/config"
	"github.com/Faultbox/mobius-paper/internal/logger"
	"github.com/Faultbox/mobius-paper/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := initLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== Möbius Paper ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	v, err := viewer.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create viewer: %w", err)
	}
	defer v.Close()

	return v.Run()
}

func initLogger(lc config.LoggingConfig) error {
	opts := logger.Options{Level: lc.Level, Console: os.Stdout, Color: true}
	if lc.LogFile != "" {
		opts.File = logger.DefaultFileConfig(lc.LogFile)
		opts.File.JSON = lc.JSON
	}
	return logger.Setup(opts)
}
