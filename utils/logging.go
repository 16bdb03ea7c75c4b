package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/texuf/towns-utils/types"
)

// LogWriter owns the optional log file so it can be closed on shutdown.
type LogWriter struct {
	file *os.File
}

func (lw *LogWriter) Dispose() {
	if lw == nil || lw.file == nil {
		return
	}
	lw.file.Sync()
	lw.file.Close()
}

// InitLogger configures the standard logrus logger from the logging config section.
func InitLogger(cfg *types.Config) (*LogWriter, *logrus.Logger) {
	logger := logrus.StandardLogger()
	logWriter := &LogWriter{}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(cfg.Logging.OutputLevel)
	if err != nil || cfg.Logging.OutputLevel == "" {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	var output io.Writer = os.Stdout
	if cfg.Logging.OutputStderr {
		output = os.Stderr
	}

	if cfg.Logging.FilePath != "" {
		file, err := os.OpenFile(cfg.Logging.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.WithError(err).Warnf("could not open log file %v, logging to console only", cfg.Logging.FilePath)
		} else {
			logWriter.file = file
			output = io.MultiWriter(output, file)

			if fileLevel, err := logrus.ParseLevel(cfg.Logging.FileLevel); err == nil && fileLevel > level {
				logger.SetLevel(fileLevel)
			}
		}
	}
	logger.SetOutput(output)

	return logWriter, logger
}

// LogError logs an error with caller info and the unwrapped error chain.
// callerSkip equal to 0 gives you info directly where LogError is called.
func LogError(err error, errorMsg interface{}, callerSkip int, additionalInfos ...map[string]interface{}) {
	logErrorInfo(err, callerSkip, additionalInfos...).Error(errorMsg)
}

// LogFatal is LogError followed by process exit.
func LogFatal(err error, errorMsg interface{}, callerSkip int, additionalInfos ...map[string]interface{}) {
	logErrorInfo(err, callerSkip, additionalInfos...).Fatal(errorMsg)
}

func logErrorInfo(err error, callerSkip int, additionalInfos ...map[string]interface{}) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())

	pc, fullFilePath, line, ok := runtime.Caller(callerSkip + 2)
	if ok {
		entry = entry.WithFields(logrus.Fields{
			"_file":     filepath.Base(fullFilePath),
			"_function": runtime.FuncForPC(pc).Name(),
			"_line":     line,
		})
	}

	depth := 0
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		entry = entry.WithField(fmt.Sprintf("cause_%v", depth), cause.Error())
		depth++
	}

	if err != nil {
		entry = entry.WithField("errType", fmt.Sprintf("%T", err)).WithError(err)
	}

	for _, infoMap := range additionalInfos {
		entry = entry.WithFields(logrus.Fields(infoMap))
	}

	return entry
}
