// Package observability builds the process logger.
package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bent101/wordle-entropy/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger returns a logger writing to console and, when cfg.File is set, to
// a rotated JSON log file. The closer releases the file and must be called on
// shutdown.
//
// Console output is human readable unless cfg.Format is "json"; colour is
// only used when console is a terminal.
func NewLogger(cfg config.LoggerConfig, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = console
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        console,
			NoColor:    !IsTerminal(console),
			TimeFormat: time.TimeOnly,
		}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
