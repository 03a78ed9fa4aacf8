// Package logrusadapter wires github.com/sirupsen/logrus into the
// logger.Logger contract, as a secondary backend behind the same interface
// zerologadapter implements — useful when a host application already
// standardizes on logrus elsewhere (e.g. the notification sinks).
package logrusadapter

import (
	"github.com/nawhizz/trend-surfer/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Adapter wraps a logrus.Entry to satisfy logger.Logger.
type Adapter struct {
	entry *logrus.Entry
}

// New builds an Adapter around logrus' standard logger at the given level.
func New(level logrus.Level) *Adapter {
	l := logrus.New()
	l.SetLevel(level)
	return &Adapter{entry: logrus.NewEntry(l)}
}

func (a *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{entry: a.entry.WithField(key, value)}
}

func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	return &Adapter{entry: a.entry.WithFields(logrus.Fields(fields))}
}

func (a *Adapter) WithError(err error) logger.Logger {
	return &Adapter{entry: a.entry.WithError(err)}
}

func (a *Adapter) Debug(args ...any)                 { a.entry.Debug(args...) }
func (a *Adapter) Info(args ...any)                  { a.entry.Info(args...) }
func (a *Adapter) Warn(args ...any)                  { a.entry.Warn(args...) }
func (a *Adapter) Error(args ...any)                 { a.entry.Error(args...) }
func (a *Adapter) Debugf(format string, args ...any) { a.entry.Debugf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.entry.Infof(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.entry.Warnf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.entry.Errorf(format, args...) }
