package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер: JSON в production, текст в development.
func Init(level string, production bool) {
	Log = New(level, production)
}

// New создаёт логгер, не трогая глобальный Log.
func New(level string, production bool) *logrus.Logger {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if production {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return l
}

// Discard подменяет глобальный логгер пустым; используется в тестах.
func Discard() {
	l := logrus.New()
	l.SetOutput(io.Discard)
	Log = l
}

// Get возвращает глобальный логгер, создавая его при первом обращении.
func Get() *logrus.Logger {
	if Log == nil {
		Log = New("info", false)
	}
	return Log
}
