package logger

import (
	"os"
	"strings"

	"github.com/profile-readme/readme-gen/config"
	"github.com/sirupsen/logrus"
)

// Setup will configure logrus logger
// logs go to stderr, standard output is left free for the preview server
func Setup(cfg config.LogsConfig) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.OutputLogsAsJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.SetLevel(StringToLogrusLogType(cfg.Level))
}

// StringToLogrusLogType will convert string to the right logrus level
// unknown values fall back to info so a typo never hides failures
func StringToLogrusLogType(logLevel string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
