package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0664

// Options selects where and how log lines are written.
type Options struct {
	Level string
	JSON  bool
	// Path appends to a file instead of writing to Writer.
	Path   string
	Writer io.Writer
}

// Logger holds the configured zerolog logger and the file backing it, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a timestamped logger. Without Writer or Path it writes to
// stderr, since stdout may carry the MCP stdio transport.
func New(opts Options) (*Logger, error) {
	l := &Logger{}

	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}
	if opts.Path != "" {
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		l.file = f
		w = zerolog.SyncWriter(f)
	}
	if !opts.JSON && opts.Path == "" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: opts.Writer != nil}
	}

	l.Logger = zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	return l, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
