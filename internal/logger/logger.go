package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultLogFile   = "info.log"
	timestampFormat  = "2006-01-02 15:04:05"
	defaultMaxSizeMB = 50
)

// Config describes where and how verbosely to log
type Config struct {
	Level       string // debug, info, warn, error
	File        string // log file path; empty disables file output
	ConsoleOnly bool
	MaxSize     int // megabytes before rotation
	MaxBackups  int
	MaxAge      int // days
	Compress    bool
}

// New builds a logger writing to stdout and, unless disabled, to a rotating
// log file.
func New(config Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&LineFormatter{})

	writers := []io.Writer{os.Stdout}

	if !config.ConsoleOnly && config.File != "" {
		if dir := filepath.Dir(config.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		maxSize := config.MaxSize
		if maxSize <= 0 {
			maxSize = defaultMaxSizeMB
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    maxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}

	logger.SetOutput(io.MultiWriter(writers...))
	return logger, nil
}

// LineFormatter renders entries as
//
//	2006-01-02 15:04:05 | INFO :: message key=value ...
//
// with fields sorted by key.
type LineFormatter struct{}

// Format implements logrus.Formatter
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteString(" | ")
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString(" :: ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}
