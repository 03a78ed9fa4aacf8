// Package logger defines the structured-logging contract the rest of this
// module depends on, so the engine and its supporting packages never import
// a concrete logging library directly.
package logger

// Logger is implemented by every logging backend this module ships with
// (zerolog, logrus) and by Noop for tests and library use without a
// configured sink.
type Logger interface {
	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	WithError(err error) Logger

	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Noop discards every log call. It is the Engine's default so callers that
// don't care about logging don't need to wire one up.
type Noop struct{}

func (Noop) WithField(string, any) Logger          { return Noop{} }
func (Noop) WithFields(map[string]any) Logger      { return Noop{} }
func (Noop) WithError(error) Logger                { return Noop{} }
func (Noop) Debug(...any)                          {}
func (Noop) Info(...any)                           {}
func (Noop) Warn(...any)                           {}
func (Noop) Error(...any)                          {}
func (Noop) Debugf(string, ...any)                 {}
func (Noop) Infof(string, ...any)                  {}
func (Noop) Warnf(string, ...any)                  {}
func (Noop) Errorf(string, ...any)                 {}
