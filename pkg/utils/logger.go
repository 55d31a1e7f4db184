package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes diagnostic messages to a rotating log file. It never writes to
// the terminal, which is in raw mode while a console is running.
type Logger struct {
	mu       sync.Mutex
	logger   *log.Logger
	closer   io.Closer
	jsonMode bool
	session  string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the process-wide logger. It discards everything until
// InitLogger has been called.
func GetLogger() *Logger {
	once.Do(func() {
		globalLogger = &Logger{
			logger: log.New(io.Discard, "", log.LstdFlags),
		}
	})
	return globalLogger
}

// InitLogger points the process-wide logger at a rotating file.
func InitLogger(path string) *Logger {
	l := GetLogger()

	logFile := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer != nil {
		_ = l.closer.Close()
	}
	l.logger = log.New(logFile, "", log.LstdFlags)
	l.closer = logFile
	l.jsonMode = os.Getenv("EXOSHELL_JSON_LOGS") == "1"
	return l
}

// SetSession tags subsequent JSON records with the console session name.
func (w *Logger) SetSession(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = name
}

// Close closes the logger resources and reverts to discarding output.
func (w *Logger) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var err error
	if w.closer != nil {
		err = w.closer.Close()
		w.closer = nil
	}
	w.logger = log.New(io.Discard, "", log.LstdFlags)
	return err
}

// Log logs a general message.
func (w *Logger) Log(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "info", "msg": message, "session": w.session})
		return
	}
	w.logger.Print(message)
}

// Logf logs a formatted general message.
func (w *Logger) Logf(format string, v ...interface{}) {
	w.Log(fmt.Sprintf(format, v...))
}

func (w *Logger) LogError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "error", "error": err.Error(), "session": w.session})
		return
	}
	w.logger.Printf("Error: %s", err)
}
