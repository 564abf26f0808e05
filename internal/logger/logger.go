package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logrus entry tagged with the service name.  The
// level comes from LOG_LEVEL (debug, info, warn, error); anything else
// means info.
func New(service string) *logrus.Entry {
	return NewWithOutput(service, os.Getenv("LOG_LEVEL"), os.Stdout)
}

// NewWithOutput is New with an explicit level and writer.
func NewWithOutput(service, level string, out io.Writer) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log.WithField("service", service)
}

// Discard is a logger for tests and optional collaborators.
func Discard() *logrus.Entry {
	return NewWithOutput("test", "error", io.Discard)
}
