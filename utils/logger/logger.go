package logger

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lendfast/appform/config"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.Level = logrus.InfoLevel
	logger.Formatter = &formatter{}
	cfg := config.ServerConfig()

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			AttachStacktrace: true,
		})
		if err != nil {
			logger.Fatalf("Sentry initialization failed: %v", err)
		}
	}
	logger.SetReportCaller(true)
}

// SetLogLevel sets the log level for the logger.
func SetLogLevel(level logrus.Level) {
	logger.Level = level
}

// Fields type, used to pass to `WithFields`.
type Fields logrus.Fields

// WithFields returns a log entry carrying structured fields.
func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(logrus.Fields(fields))
}

// Debugf logs a message at level Debug
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Infof logs a message at level Info
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Warnf logs a message at level Warn
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Errorf logs a message at level Error and captures it in Sentry
func Errorf(format string, args ...interface{}) {
	if logger.Level >= logrus.ErrorLevel {
		sentry.CaptureMessage(fmt.Sprintf(format, args...))
	}
	logger.Errorf(format, args...)
}

// Fatalf logs a message at level Fatal then exits
func Fatalf(format string, args ...interface{}) {
	if logger.Level >= logrus.FatalLevel {
		sentry.CaptureMessage(fmt.Sprintf(format, args...))
	}
	logger.Fatalf(format, args...)
}

// formatter implements logrus.Formatter interface
type formatter struct {
	prefix string
}

// Format building log message
func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb bytes.Buffer
	sb.WriteString(strings.ToUpper(entry.Level.String()))
	sb.WriteString(" ")
	sb.WriteString(entry.Time.Format(time.RFC3339))
	sb.WriteString(" ")
	sb.WriteString(f.prefix)
	sb.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		sb.WriteString(" [")
		for key, value := range entry.Data {
			sb.WriteString(fmt.Sprintf("%s=%v ", key, value))
		}
		sb.WriteString("]")
	}
	sb.WriteString("\n")

	return sb.Bytes(), nil
}
