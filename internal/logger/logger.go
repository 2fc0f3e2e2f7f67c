// Package logger holds the global structured logger used by the septop
// command and the batch runner. The top package never logs.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It is a no-op until Initialize is called.
	Logger *zap.SugaredLogger
	// JSONOutput is true if Initialize was asked for JSON output.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Level maps a -v count to a zap level: 0 is info, anything above is debug.
func Level(verbosity int) zapcore.Level {
	if verbosity > 0 {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// Initialize sets up the global logger. With jsonOutput, entries are written
// as JSON by the zap production encoder; otherwise a console encoder writes
// to stderr, so the standard output is left to the command results.
func Initialize(jsonOutput bool, verbosity int) error {
	JSONOutput = jsonOutput
	level := zap.NewAtomicLevelAt(Level(verbosity))
	var zapLogger *zap.Logger
	var err error
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
	} else {
		encoder := zap.NewDevelopmentEncoderConfig()
		encoder.TimeKey = ""
		encoder.CallerKey = ""
		encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoder),
				zapcore.AddSync(os.Stderr),
				level,
			),
		)
	}
	if err != nil {
		return err
	}
	Logger = zapLogger.Sugar()
	return nil
}

// Set replaces the global logger, mostly for tests.
func Set(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	Logger = l
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
