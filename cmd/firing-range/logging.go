package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/ordnance/config"
)

const defaultMaxLogSize = 10 * 1024 * 1024

// setupLogging builds the CLI logger. With no file it writes to console, or discards
// when the terminal is taken by the plot view. A file larger than MaxSize is rotated
// aside with a timestamp before a fresh one is opened
func setupLogging(cfg config.LogConfig, console io.Writer) (zerolog.Logger, *os.File, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	if cfg.File == "" {
		if console == nil {
			return zerolog.Nop(), nil, nil
		}
		out := zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly}
		return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = defaultMaxLogSize
	}
	if info, err := os.Stat(cfg.File); err == nil && info.Size() > maxSize {
		if err := os.Rename(cfg.File, rotatedName(cfg.File, time.Now())); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f, nil
}

// rotatedName inserts a timestamp before the extension: range.log -> range-20060102-150405.log
func rotatedName(path string, at time.Time) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".log"
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "-" + at.Format("20060102-150405") + ext
}
