// Package main runs the interactive space traffic prediction form.
//
// The form asks for a model, a location, a date, and the object types
// present, prints the predicted traffic density, and offers to predict
// again. Logs go to stderr so they do not interleave with the prompts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"spacetraffic/internal/bootstrap"
	"spacetraffic/internal/config"
	"spacetraffic/internal/form"
	"spacetraffic/internal/prediction"
)

func main() {
	envFile := flag.String("env", "", "dotenv file to load before reading the environment")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(logLevel(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, prediction.UserMessage(err))
		return err
	}

	runner := form.NewRunner(
		form.NewSurveyDriver(os.Stdout),
		prediction.NewSession(rt.Service),
		rt.Registry.ModelNames(),
		rt.Registry.Locations(),
		logger,
	)
	return runner.Run(ctx)
}

// defaultLogLevel applies when LOG_LEVEL is not set in the environment or a
// dotenv file. The config default of info is too chatty next to the prompts.
const defaultLogLevel = "warn"

// logLevel returns the configured level only when LOG_LEVEL was given
// explicitly.
func logLevel(cfg *config.Config) string {
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		return cfg.LogLevel
	}
	return defaultLogLevel
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
