package logger

import (
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Setup initializes Logrus with file rotation. Debug mode keeps logs on
// stdout only.
func Setup(debug bool) {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		rotator := &lumberjack.Logger{
			Filename:   "./logs/app.log",
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		logrus.SetOutput(rotator)
		logrus.SetLevel(logrus.InfoLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
