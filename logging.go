package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// defaultLogFile returns the timestamped per-run log file name.
func defaultLogFile(now time.Time) string {
	return fmt.Sprintf("argus_%s.log", now.Format("20060102_150405"))
}

// parseLevel maps a level name to its slog level.
func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// newLogger builds the run logger. Messages always go to stderr so stdout
// stays free for machine-readable output; unless disabled with "-", they are
// mirrored to a rotating log file so every run leaves a processing log next
// to the report.
func newLogger(levelName, logFile string) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if logFile != "-" && logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		w = io.MultiWriter(os.Stderr, rotator)
		closer = rotator
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}
