package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds CLI defaults read from the environment. Flags override it.
type Config struct {
	ID       string        `env:"SEQJOBS_ID" envDefault:"Queue"`
	Delay    time.Duration `env:"SEQJOBS_DELAY" envDefault:"0s"`
	LogLevel string        `env:"SEQJOBS_LOG_LEVEL" envDefault:"info"`
	History  string        `env:"SEQJOBS_HISTORY"`
	Shell    string        `env:"SEQJOBS_SHELL" envDefault:"/bin/sh"`
	FailFast bool          `env:"SEQJOBS_FAIL_FAST" envDefault:"false"`
}

// loadConfig reads a .env file if one exists, then the process environment.
func loadConfig() (Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
