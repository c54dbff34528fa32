package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-relay/internal/app"
	"github.com/vovakirdan/wirechat-relay/internal/config"
	"github.com/vovakirdan/wirechat-relay/internal/log"
)

func loadConfig() (config.Config, error) {
	cfg, path, err := config.Load(log.NewWithWriter(os.Stderr, "info"), configFile)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.UpdateFrom(config.Config{
		TCPAddr:  tcpAddr,
		HTTPAddr: httpAddr,
		LogLevel: logLevel,
	})
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("tcp_addr", cfg.TCPAddr).
		Str("http_addr", cfg.HTTPAddr).
		Int("max_rooms", cfg.MaxRooms).
		Int("room_capacity", cfg.RoomCapacity).
		Msg("starting wirechat relay")

	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
