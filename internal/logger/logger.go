package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"geocapture/internal/config"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging (debug/info/warning/error) to a file and stdout.
type Logger struct {
	log  zerolog.Logger
	file *os.File
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(cfg *config.Config) *Logger {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	file := openLogFile(filepath.Join(cfg.LogDirectory, "server.log"))
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}

	return New(zerolog.MultiLevelWriter(console, file), cfg.LogLevel, file)
}

// New builds a Logger on top of an arbitrary writer. The closer may be nil.
func New(w io.Writer, level string, closer *os.File) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return &Logger{
		log:  zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
		file: closer,
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{log: zerolog.Nop()}
}

// openLogFile opens or creates a log file for appending.
func openLogFile(filename string) *os.File {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", filename, err)
	}
	return file
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.log.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}

func (l *Logger) Warning(format string, v ...interface{}) {
	l.log.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}

// With returns a child logger that attaches key=value to every entry.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{log: l.log.With().Str(key, value).Logger(), file: l.file}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
