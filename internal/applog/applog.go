// Package applog builds the logger shared by the command line tools.
package applog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when the requested level cannot be parsed.
const DefaultLevel = logrus.InfoLevel

// New returns a text logger on stderr at the given level ("debug", "info",
// ...). An unknown level falls back to DefaultLevel and is reported once
// at warn.
func New(level string) *logrus.Logger {
	return NewTo(os.Stderr, level)
}

// NewTo is New with an explicit output.
func NewTo(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.Out = w
	logger.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableSorting:   false,
		QuoteEmptyFields: true,
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.SetLevel(DefaultLevel)
		logger.WithField("level", level).Warn("unknown log level, using info")
		return logger
	}
	logger.SetLevel(lvl)

	return logger
}
