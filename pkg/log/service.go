package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mwantia/tagster/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerService interface {
	Debug(msg string, args ...any)

	Info(msg string, args ...any)

	Warn(msg string, args ...any)

	Error(msg string, args ...any)

	Fatal(msg string, args ...any)

	Named(name string) LoggerService
}

// exit is swapped in tests
var exit = os.Exit

// sink is shared by a logger and every logger derived from it through Named.
// Terminal output may be coloured, the rotated file never is.
type sink struct {
	mu       sync.Mutex
	terminal io.Writer
	file     io.WriteCloser
}

type LoggerServiceImpl struct {
	LoggerService

	cfg   config.LogConfig
	name  string
	level LogLevel
	sink  *sink
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func NewLoggerService(name string, cfg config.LogConfig) LoggerService {
	return NewLoggerServiceWithWriter(name, cfg, os.Stderr)
}

// NewLoggerServiceWithWriter creates a logger printing terminal output to w
// instead of stderr. File output is still written when configured.
func NewLoggerServiceWithWriter(name string, cfg config.LogConfig, w io.Writer) LoggerService {
	s := &sink{}

	if cfg.File != "" {
		s.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		}
	}
	// Without a file the terminal is the only place left to write to
	if !cfg.NoTerminal || s.file == nil {
		s.terminal = w
	}

	return &LoggerServiceImpl{
		cfg:   cfg,
		name:  name,
		level: Parse(cfg.Level),
		sink:  s,
	}
}

func (impl *LoggerServiceImpl) log(level LogLevel, msg string, args ...any) {
	if level < impl.level {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().Format(impl.cfg.TimeFormat),
		Level:     level.String(),
		Service:   impl.name,
		Message:   msg,
	}
	if len(args) > 0 {
		entry.Message = fmt.Sprintf(msg, args...)
	}

	impl.sink.mu.Lock()
	if impl.sink.terminal != nil {
		impl.write(impl.sink.terminal, level, entry, !impl.cfg.NoColor)
	}
	if impl.sink.file != nil {
		impl.write(impl.sink.file, level, entry, false)
	}
	impl.sink.mu.Unlock()

	if level == Fatal {
		exit(1)
	}
}

func (impl *LoggerServiceImpl) write(w io.Writer, level LogLevel, entry logEntry, colour bool) {
	if impl.cfg.JSON {
		data, _ := json.Marshal(entry)
		fmt.Fprintf(w, "%s\n", data)
		return
	}

	line := fmt.Sprintf("[%s] %-5s", entry.Timestamp, entry.Level)
	if entry.Service != "" {
		line = fmt.Sprintf("%s [%s]", line, entry.Service)
	}

	if colour {
		fmt.Fprintf(w, "%s%s %s\033[0m\n", Color(level), line, entry.Message)
		return
	}
	fmt.Fprintf(w, "%s %s\n", line, entry.Message)
}

func (impl *LoggerServiceImpl) Debug(msg string, args ...any) {
	impl.log(Debug, msg, args...)
}

func (impl *LoggerServiceImpl) Info(msg string, args ...any) {
	impl.log(Info, msg, args...)
}

func (impl *LoggerServiceImpl) Warn(msg string, args ...any) {
	impl.log(Warn, msg, args...)
}

func (impl *LoggerServiceImpl) Error(msg string, args ...any) {
	impl.log(Error, msg, args...)
}

func (impl *LoggerServiceImpl) Fatal(msg string, args ...any) {
	impl.log(Fatal, msg, args...)
}

// Named derives a logger writing to the same sink, its name nested below the current one
func (impl *LoggerServiceImpl) Named(name string) LoggerService {
	if impl.name != "" {
		name = fmt.Sprintf("%s/%s", impl.name, name)
	}

	return &LoggerServiceImpl{
		cfg:   impl.cfg,
		name:  name,
		level: impl.level,
		sink:  impl.sink,
	}
}

// Close flushes and closes the log file, terminal output is left open
func (impl *LoggerServiceImpl) Close() error {
	impl.sink.mu.Lock()
	defer impl.sink.mu.Unlock()

	if impl.sink.file == nil {
		return nil
	}
	return impl.sink.file.Close()
}
