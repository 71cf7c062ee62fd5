package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	// InfoLogger ke stdout, ErrorLogger ke stderr
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

// SetLogLevel mengubah level InfoLogger, mis. "debug" untuk melihat baris yang di-skip
func SetLogLevel(level string) {
	if InfoLogger == nil {
		InitLogger()
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		ErrorLogger.Errorf("Unknown log level %q, keeping %s", level, InfoLogger.GetLevel())
		return
	}
	InfoLogger.SetLevel(lvl)
}

// Info dan Error aman dipanggil walaupun InitLogger belum dijalankan
func Info() *logrus.Logger {
	if InfoLogger == nil {
		InitLogger()
	}
	return InfoLogger
}

func Error() *logrus.Logger {
	if ErrorLogger == nil {
		InitLogger()
	}
	return ErrorLogger
}
