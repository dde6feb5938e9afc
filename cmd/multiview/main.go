package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/multiview/multiview/internal/server"
	"github.com/multiview/multiview/internal/validate"
	"github.com/multiview/multiview/internal/videoid"
	"github.com/multiview/multiview/internal/wall"
)

var rootCmd = &cobra.Command{
	Use:          "multiview",
	Short:        "Watch many YouTube videos in one resizable grid",
	RunE:         run,
	SilenceUsage: true,
}

var (
	flagPort            string
	flagBaseURL         string
	flagEmbedBaseURL    string
	flagMaxVideos       int
	flagLogLevel        string
	flagLogFormat       string
	flagSettingsDelayMS int64
	flagWallIdleSeconds int64
	flagFrameAncestors  string
	flagAPIDocs         bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagPort, "port", getEnv("PORT", "8080"), "HTTP listen port (env PORT)")
	flags.StringVar(&flagBaseURL, "base-url", getEnv("BASE_URL", "http://localhost:8080"), "public URL of this server (env BASE_URL)")
	flags.StringVar(&flagEmbedBaseURL, "embed-base-url", getEnv("EMBED_BASE_URL", videoid.DefaultEmbedBase), "player embed URL prefix (env EMBED_BASE_URL)")
	flags.IntVar(&flagMaxVideos, "max-videos", int(getEnvInt64("MAX_VIDEOS", validate.DefaultMaxVideos)), "most videos one grid may hold (env MAX_VIDEOS)")
	flags.StringVar(&flagLogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "debug, info, warn or error (env LOG_LEVEL)")
	flags.StringVar(&flagLogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "text or json (env LOG_FORMAT)")
	flags.Int64Var(&flagSettingsDelayMS, "settings-delay-ms", getEnvInt64("SETTINGS_BAR_DELAY_MS", wall.DefaultSettingsDelay.Milliseconds()), "settings bar hide delay (env SETTINGS_BAR_DELAY_MS)")
	flags.Int64Var(&flagWallIdleSeconds, "wall-idle-timeout", getEnvInt64("WALL_IDLE_TIMEOUT_SECONDS", int64(wall.DefaultIdleTimeout.Seconds())), "seconds before an unwatched wall is dropped (env WALL_IDLE_TIMEOUT_SECONDS)")
	flags.BoolVar(&flagAPIDocs, "api-docs", getEnv("API_DOCS_ENABLED", "false") == "true", "serve the API reference at /api/docs (env API_DOCS_ENABLED)")
	flags.StringVar(&flagFrameAncestors, "frame-ancestors", os.Getenv("ALLOWED_FRAME_ANCESTORS"), "extra origins allowed to frame the grid (env ALLOWED_FRAME_ANCESTORS)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr, flagLogLevel, flagLogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if flagMaxVideos <= 0 {
		return fmt.Errorf("max-videos must be positive, got %d", flagMaxVideos)
	}
	settingsDelay := time.Duration(flagSettingsDelayMS) * time.Millisecond

	walls := wall.NewRegistry(wall.Config{
		MaxVideos:     flagMaxVideos,
		SettingsDelay: settingsDelay,
		IdleTimeout:   time.Duration(flagWallIdleSeconds) * time.Second,
	})
	defer walls.Close()

	srv := server.New(server.Config{
		BaseURL:               strings.TrimSuffix(flagBaseURL, "/"),
		EmbedBaseURL:          flagEmbedBaseURL,
		MaxVideos:             flagMaxVideos,
		SettingsDelay:         settingsDelay,
		AllowedFrameAncestors: flagFrameAncestors,
		EnableDocs:            flagAPIDocs,
		Walls:                 walls,
	})
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", flagPort),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("multiview listening", "addr", httpServer.Addr, "base_url", flagBaseURL, "max_videos", flagMaxVideos)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
