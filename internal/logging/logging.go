package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spotcheck/internal/config"
)

// New returns a slog.Logger with the provided level string (info, debug, warn, error).
// format may be "json" or "text".
func New(level string, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// Setup configures logging from config, with optional dated file output.
// The returned logger is also installed as the slog default.
func Setup(cfg *config.Config) (*slog.Logger, error) {
	var writers []io.Writer

	// Stderr keeps stdout free for verdict lines and command output.
	writers = append(writers, os.Stderr)

	if cfg.Logging.FileOutput {
		if err := os.MkdirAll(cfg.Logging.LogDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %v", err)
		}

		logFile := filepath.Join(cfg.Logging.LogDir, fmt.Sprintf("spotcheck-%s.log",
			time.Now().Format("2006-01-02")))

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %v", err)
		}
		writers = append(writers, file)
	}

	multiWriter := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Logging.Level)}

	var handler slog.Handler
	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(multiWriter, opts)
	} else {
		handler = slog.NewTextHandler(multiWriter, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogRunStart logs the beginning of an analysis run.
func LogRunStart(logger *slog.Logger, runID, imagePath, expectPath string) {
	logger.Info("analysis run started",
		"id", runID,
		"image", imagePath,
		"expectations", expectPath,
	)
}

// LogRunComplete logs successful run completion.
func LogRunComplete(logger *slog.Logger, runID string, duration time.Duration, passed bool) {
	logger.Info("analysis run completed",
		"id", runID,
		"duration_ms", duration.Milliseconds(),
		"all_tests_passed", passed,
	)
}

// LogRunError logs run failures.
func LogRunError(logger *slog.Logger, runID string, duration time.Duration, err error) {
	logger.Error("analysis run failed",
		"id", runID,
		"duration_ms", duration.Milliseconds(),
		"error", err.Error(),
	)
}

// LogSinkOutcome logs the result of a best-effort sink write.
func LogSinkOutcome(logger *slog.Logger, runID, sink string, err error) {
	if err != nil {
		logger.Error("sink write failed",
			"id", runID,
			"sink", sink,
			"error", err.Error(),
		)
		return
	}
	logger.Debug("sink write ok", "id", runID, "sink", sink)
}
