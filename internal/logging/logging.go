// ABOUTME: Global logger setup on charmbracelet/log with optional file rotation.
// ABOUTME: Log files are rotated by lumberjack; stderr is used otherwise.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params configures Setup.
type Params struct {
	Level string
	// File enables rotated file output when set.
	File string
	// Stderr also writes to stderr when File is set.
	Stderr bool
	JSON   bool
}

// New builds a logger from params. The returned closer releases the log file
// and is never nil.
func New(params Params) (*log.Logger, io.Closer) {
	level, err := log.ParseLevel(strings.ToLower(params.Level))
	if err != nil {
		level = log.InfoLevel
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if params.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   params.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		closer = rotator
		out = rotator
		if params.Stderr {
			out = io.MultiWriter(os.Stderr, rotator)
		}
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: params.File != "",
		Prefix:          "fitlog",
	}
	if params.JSON {
		opts.Formatter = log.JSONFormatter
		opts.ReportTimestamp = true
	}

	logger := log.NewWithOptions(out, opts)
	if err != nil && params.Level != "" {
		logger.Warn("unknown log level, using info", "level", params.Level)
	}
	return logger, closer
}

// Setup installs a logger built from params as the package default.
func Setup(params Params) io.Closer {
	logger, closer := New(params)
	log.SetDefault(logger)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
