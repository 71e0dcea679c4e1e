// Package logging hands out per-component logrus loggers configured from the
// `logging` config section, the environment and command-line overrides.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Environment variables read when a logger is built.
const (
	EnvLevel  = "CMUX_NOTIFY_LOG_LEVEL"
	EnvCaller = "CMUX_NOTIFY_LOG_CALLER"
)

// DefaultLevel keeps the hook quiet unless something goes wrong.
const DefaultLevel = logrus.WarnLevel

// Overrides are set from command-line flags and beat both the environment
// and the config file.
type Overrides struct {
	Verbose bool
	JSON    bool
}

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	current   Config
	overrides Overrides
	sink      fileSink

	stderr     io.Writer = os.Stderr
	isTerminal           = func() bool {
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
)

// Configure replaces the active configuration. Loggers created earlier are
// discarded so the next NewLogger call picks up the new settings, and the
// log file they shared is closed.
func Configure(cfg Config, o Overrides) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	sink.close()
	current = cfg
	overrides = o
	loggers = make(map[string]*logrus.Entry)
}

// NewLogger returns the cached logger for a component, building it on first
// use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	entry := build(current, overrides).WithField("component", component)
	loggers[component] = entry
	return entry
}

func build(cfg Config, o Overrides) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(resolveLevel(cfg, o))

	if os.Getenv(EnvCaller) == "true" || cfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	preset := cfg.Format.Preset
	if o.JSON {
		preset = "json"
	}
	switch preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: cfg.Format})
	}

	var writers []io.Writer
	if w := openFileSink(cfg.File, logger); w != nil {
		writers = append(writers, w)
	}
	if shouldLogToStderr(cfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	return logger
}

func resolveLevel(cfg Config, o Overrides) logrus.Level {
	if o.Verbose {
		return logrus.DebugLevel
	}
	levelStr := cfg.Level
	if env := os.Getenv(EnvLevel); env != "" {
		levelStr = env
	}
	if levelStr == "" {
		return DefaultLevel
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return DefaultLevel
	}
	return level
}

// shouldLogToStderr decides the stderr sink. In auto mode an interactive
// terminal only sees debug output.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return level >= logrus.DebugLevel || !isTerminal()
	}
}

// fileSink is the log file shared by every component logger of one
// configuration. It is opened on first use and at most once.
type fileSink struct {
	file   *os.File
	opened bool
	err    error
}

// open reports whether this call performed the open, so a failure is only
// logged once.
func (f *fileSink) open(path string) (*os.File, bool, error) {
	if f.opened {
		return f.file, false, f.err
	}
	f.opened = true
	if f.err = os.MkdirAll(filepath.Dir(path), 0o755); f.err != nil {
		return nil, true, f.err
	}
	f.file, f.err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	return f.file, true, f.err
}

func (f *fileSink) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
	*f = fileSink{}
}

func openFileSink(cfg FileSinkConfig, logger *logrus.Logger) io.Writer {
	if !cfg.Enabled || cfg.Path == "" {
		return nil
	}
	path := expandPath(cfg.Path)
	file, first, err := sink.open(path)
	if err != nil {
		if first {
			logger.Warnf("Failed to open log file %s: %v", path, err)
		}
		return nil
	}
	if cfg.Format == "json" && logger.Formatter != nil {
		if _, isJSON := logger.Formatter.(*logrus.JSONFormatter); !isJSON {
			logger.AddHook(&fileHook{writer: file, formatter: &logrus.JSONFormatter{}})
			return nil
		}
	}
	return file
}

// fileHook writes entries to a file with its own formatter.
type fileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
