package ros

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is the logging surface used throughout the package.
type Logger = logrus.FieldLogger

// DefaultLogger returns the logrus standard logger.
func DefaultLogger() *logrus.Logger {
	return logrus.StandardLogger()
}

// NewLogger returns a logger at the named level writing to stderr and,
// when logDir is not empty, also appending to logDir/fileName.
func NewLogger(level string, logDir string, fileName string) (*logrus.Logger, error) {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetFormatter(&SimpleFormatter{})

	var out io.Writer = os.Stderr
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create log directory '%s'", logDir)
		}
		path := filepath.Join(logDir, fileName)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open log file '%s'", path)
		}
		out = io.MultiWriter(os.Stderr, f)
	}
	l.SetOutput(out)
	return l, nil
}

// SimpleFormatter writes "2006/01/02 15:04:05.000000 [INF] message k=v".
type SimpleFormatter struct {
	TimestampFormat string
}

func (f *SimpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}
	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "2006/01/02 15:04:05.000000"
	}
	b.WriteString(entry.Time.Format(timestampFormat))

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 3 {
		level = level[:3]
	}
	fmt.Fprintf(b, " [%s] %s", level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
