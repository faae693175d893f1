package p4

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// SetLogLevel sets the process-wide logging threshold. Call it once at
// startup; the engine only reads it afterwards.
func SetLogLevel(level logrus.Level) {
	logger.SetLevel(level)
}

// SetLogOutput redirects engine logging.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Logger returns the engine logger.
func Logger() *logrus.Logger {
	return logger
}
