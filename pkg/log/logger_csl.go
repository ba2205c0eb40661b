package log

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// CslLogger writes leveled lines to the console through logrus.
// Levels logrus does not have are mapped onto the closest one and tagged.
type CslLogger struct {
	entry *logrus.Logger
}

func NewCslLogger() (*CslLogger, error) {
	return NewCslLoggerWithWriter(os.Stderr), nil
}

func NewCslLoggerWithWriter(w io.Writer) *CslLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &CslLogger{entry: l}
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).Infof(format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).WithField("tag", "ALERT").Errorf(format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).Errorf(format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).Warnf(format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).Debugf(format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).WithField("tag", "CRITICAL").Errorf(format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).WithField("tag", "EMERGENCY").Errorf(format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.entry.WithContext(ctx).WithField("tag", "NOTICE").Infof(format, args...)
}
