// Package logging builds the process-wide logrus logger, grounded on
// PossumXI-Asgard_Arobi/Valkyrie's *logrus.Logger-injection convention:
// callers receive a constructed *logrus.Logger and pass it down
// explicitly, rather than reaching for logrus's global package-level
// logger (spec §9's single-shot-timestamped-logger antipattern applies
// equally to any implicit global logger).
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a *logrus.Logger writing structured (JSON) entries to stderr
// at the given level name ("debug", "info", "warn", "error"). An
// unrecognized level falls back to info.
func New(levelName string) *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
