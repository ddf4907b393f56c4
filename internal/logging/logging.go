// Package logging sets up the zerolog loggers used by the xrc command.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogFile is where a record of every processed file is appended.
const DefaultLogFile = "xrc_log.txt"

// Logger is a zerolog.Logger together with the log file it writes to, if any.
type Logger struct {
	zerolog.Logger
	file io.Closer
}

// New creates a logger that writes human-readable output to console at the given level.
// When logFile is not empty, every event is also appended to it as JSON, regardless of level.
func New(console io.Writer, level zerolog.Level, logFile string) (*Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	consoleWriter := zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	l := &Logger{}
	if logFile == "" {
		l.Logger = zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger()
		return l, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", logFile, err)
	}
	l.file = f
	l.Logger = zerolog.New(zerolog.MultiLevelWriter(
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: consoleWriter},
			Level:  level,
		},
		f,
	)).With().Timestamp().Logger()
	return l, nil
}

// ParseLevel parses a level name, defaulting to info for an empty string.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level '%s': %w", name, err)
	}
	return level, nil
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
