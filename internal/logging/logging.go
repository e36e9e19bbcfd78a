package logging

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvLogLevel overrides the log level when the flag is not given.
const EnvLogLevel = "G2M_LOG_LEVEL"

// Log is the global Logrus logger instance for the application.
// Internal packages receive it as a logrus.FieldLogger instead of importing it.
var Log *logrus.Logger

func init() {
	Log = New()
}

// New returns a logger with the application formatter writing to stderr, so
// stdout stays free for generated output.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// Configure sets up the Logrus logger's level based on Viper's configuration
// and the command's flags. It takes the *cobra.Command to inspect flag changes.
func Configure(cmd *cobra.Command) {
	// flag > env var > config file > default
	levelStr := viper.GetString("log-level")

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		Log.Warnf("Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		Log.SetLevel(logrus.InfoLevel)
		return
	}
	Log.SetLevel(level)

	source := getLogLevelSource(cmd)
	Log.Debugf("Logrus level set to: %s (source: %s)", level.String(), source)
}

// getLogLevelSource determines whether the log level came from a flag,
// environment variable, config file, or default.
func getLogLevelSource(cmd *cobra.Command) string {
	if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
		return "flag"
	}
	if os.Getenv(EnvLogLevel) != "" {
		return "environment variable"
	}
	if viper.ConfigFileUsed() != "" && viper.IsSet("log-level") {
		return "config file"
	}
	return "default"
}
