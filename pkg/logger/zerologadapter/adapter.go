// Package zerologadapter wires github.com/rs/zerolog into the logger.Logger
// contract, with a colorized console writer for local runs.
package zerologadapter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/goterm/term"
	"github.com/nawhizz/trend-surfer/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Adapter wraps a zerolog.Logger to satisfy logger.Logger.
type Adapter struct {
	*zerolog.Logger
}

// New builds a console-formatted zerolog logger at the given level
// ("debug", "info", "warn", "error"), colorized when colored is true.
// jsonFormat leaves out the custom level, caller and timestamp formatters;
// output still goes through the console writer rather than as JSON.
func New(level string, colored, jsonFormat bool) (*Adapter, error) {
	logMode, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("zerologadapter: %w", err)
	}
	zerolog.SetGlobalLevel(logMode)

	const timeLayout = "2006-01-02 15:04:05"
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		NoColor:    !colored,
		TimeFormat: timeLayout,
	}
	if !jsonFormat {
		output.FormatLevel = formatLevel
		output.FormatCaller = formatCaller
		output.FormatTimestamp = func(i any) string { return formatTimestamp(i, timeLayout) }
	}

	l := log.Output(output).With().CallerWithSkipFrameCount(3).Logger()
	return &Adapter{&l}, nil
}

func (a *Adapter) WithField(key string, value any) logger.Logger {
	l := a.With().Interface(key, value).Logger()
	return &Adapter{&l}
}

func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	l := a.With().Fields(fields).Logger()
	return &Adapter{&l}
}

func (a *Adapter) WithError(err error) logger.Logger {
	l := a.With().Err(err).Logger()
	return &Adapter{&l}
}

func (a *Adapter) Debug(args ...any)                 { a.Logger.Debug().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Info(args ...any)                  { a.Logger.Info().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Warn(args ...any)                  { a.Logger.Warn().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Error(args ...any)                 { a.Logger.Error().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Debugf(format string, args ...any) { a.Logger.Debug().Msgf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.Logger.Info().Msgf(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.Logger.Warn().Msgf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.Logger.Error().Msgf(format, args...) }

func formatLevel(i any) string {
	levelStr, ok := i.(string)
	if !ok {
		return "[UNK]"
	}
	switch levelStr {
	case zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WAR]")
	case zerolog.LevelErrorValue:
		return term.Redf("[ERR]")
	default:
		return term.Whitef("[UNK]")
	}
}

func formatCaller(i any) string {
	fname, ok := i.(string)
	if !ok || fname == "" {
		return ""
	}
	caller := filepath.Base(fname)
	return term.Yellowf("[%s]", caller)
}

func formatTimestamp(i any, layout string) string {
	strTime, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}
	ts, err := time.ParseInLocation(time.RFC3339, strTime, time.Local)
	if err != nil {
		return term.Cyanf("[%s]", strTime)
	}
	return term.Cyanf("[%s]", ts.In(time.Local).Format(layout))
}
