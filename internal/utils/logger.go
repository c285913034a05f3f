package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a new configured logger. Output goes to stdout, plus
// logFile when set, rotated by lumberjack and pruned after maxAgeDays.
// The returned func closes the file sink.
func NewLogger(level, logFile string, maxAgeDays int) (*logrus.Logger, func()) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Parse log level
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	cleanup := func() {}
	if logFile == "" {
		return logger, cleanup
	}

	if err := checkWritable(logFile); err != nil {
		logger.WithError(err).WithField("log_file", logFile).Warn("Cannot write to log file, file logging is disabled")
		return logger, cleanup
	}

	if maxAgeDays <= 0 {
		maxAgeDays = 7
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxAge:     maxAgeDays,
		MaxBackups: maxAgeDays,
		LocalTime:  true,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	logger.WithField("log_file", logFile).Info("File logging enabled")

	return logger, func() { _ = rotator.Close() }
}

func checkWritable(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
