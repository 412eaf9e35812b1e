package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file written under the log directory.
const LogFileName = "sprint-metrics.log"

// Messages logged before Init stay at info level.
func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file
// under logDir. An empty logDir falls back to LOGS_FOLDER, then to logs/ next to the binary.
func Init(verbose bool, logDir string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	if logDir == "" {
		logDir = os.Getenv("LOGS_FOLDER")
	}
	if logDir == "" {
		logDir = "logs"
		if exePath, err := os.Executable(); err == nil {
			logDir = filepath.Join(filepath.Dir(exePath), "logs")
		}
	}
	if err := ensureWritable(logDir); err != nil {
		return err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     90, // days
		Compress:   true,
	}

	log.Logger = New(zerolog.MultiLevelWriter(io.Writer(console), file))
	return nil
}

// New builds a timestamped logger on w.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %q: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}
