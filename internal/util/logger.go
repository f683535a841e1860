package util

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const LOG_BUFFER_SIZE = 1000

var (
	ErrLogNotInitialized      = errors.New("log object is not initialized yet")
	LOG_FOLDER_NAME_WITH_PATH = ".." + string(os.PathSeparator) + "log"
	globalLogLevel            = zapcore.InfoLevel
)

const (
	LOG_LEVEL_ERROR = iota + 1
	LOG_LEVEL_WARN
	LOG_LEVEL_INFO
	LOG_LEVEL_DEBUG
)

// MetricsLogger buffers log lines through a channel and drains them to a
// zap core on a background goroutine. The zero value is usable: LogEvent
// on an uninitialized logger reports ErrLogNotInitialized instead of
// panicking, which keeps it safe to inject in tests.
type MetricsLogger struct {
	logBuffer         chan leveledEntry
	handle            *os.File
	wg                *sync.WaitGroup
	loggerInitialized bool
	zapLogger         *zap.Logger
}

type leveledEntry struct {
	level  int
	logMsg string
}

// Init opens (or appends to) the log file under the configured folder and
// starts the writer goroutine.
func (m *MetricsLogger) Init(logFileName string, rewrite bool) error {
	m.wg = new(sync.WaitGroup)
	m.logBuffer = make(chan leveledEntry, LOG_BUFFER_SIZE)

	flags := os.O_RDWR | os.O_CREATE | os.O_APPEND
	if rewrite {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}

	fileWithRelPath := LOG_FOLDER_NAME_WITH_PATH + string(os.PathSeparator) + logFileName
	handle, err := os.OpenFile(fileWithRelPath, flags, 0666)
	if err != nil {
		return err
	}
	m.handle = handle

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(m.handle),
		globalLogLevel,
	)
	m.zapLogger = zap.New(core)

	m.wg.Add(1)
	go m.logWriter()

	m.loggerInitialized = true
	return nil
}

func (m *MetricsLogger) logWriter() {
	for entry := range m.logBuffer {
		switch entry.level {
		case LOG_LEVEL_ERROR:
			m.zapLogger.Error(entry.logMsg)
		case LOG_LEVEL_WARN:
			m.zapLogger.Warn(entry.logMsg)
		case LOG_LEVEL_DEBUG:
			m.zapLogger.Debug(entry.logMsg)
		default:
			m.zapLogger.Info(entry.logMsg)
		}
	}
	m.wg.Done()
}

// LogEvent enqueues a log line. The first argument may be one of the
// LOG_LEVEL_* constants; everything else is joined into the message.
// Without a leading level the line is logged at INFO.
func (m *MetricsLogger) LogEvent(v ...interface{}) error {
	if len(v) == 0 {
		return nil
	}

	level := LOG_LEVEL_INFO
	args := v
	if lv, ok := v[0].(int); ok && lv >= LOG_LEVEL_ERROR && lv <= LOG_LEVEL_DEBUG {
		level = lv
		args = v[1:]
	}

	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}

	if !m.loggerInitialized {
		return ErrLogNotInitialized
	}
	m.logBuffer <- leveledEntry{level: level, logMsg: strings.Join(parts, " ")}
	return nil
}

// DeInit stops the writer goroutine, flushes and closes the log file.
func (m *MetricsLogger) DeInit() {
	if !m.loggerInitialized {
		return
	}
	m.loggerInitialized = false
	close(m.logBuffer)
	m.wg.Wait()

	_ = m.zapLogger.Sync()
	m.handle.Close()
}

// SetGlobalLogLevel maps a config level string (debug|info|warn|error,
// case-insensitive) onto the zap level used by subsequently initialized
// loggers. Unknown strings fall back to info.
func SetGlobalLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		globalLogLevel = zapcore.DebugLevel
	case "warn":
		globalLogLevel = zapcore.WarnLevel
	case "error":
		globalLogLevel = zapcore.ErrorLevel
	default:
		globalLogLevel = zapcore.InfoLevel
	}
}

func SetLoggerPath(logPath string) {
	LOG_FOLDER_NAME_WITH_PATH = logPath
}

func CheckAndCreateLogFolder(folderNameWithPath string) {
	if _, err := os.Stat(folderNameWithPath); os.IsNotExist(err) {
		if err := os.MkdirAll(folderNameWithPath, 0755); err != nil {
			fmt.Println("Failed to create the log folder and Mkdir err :: ", err)
		}
	}
}
