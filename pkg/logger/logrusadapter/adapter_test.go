package logrusadapter

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew_SatisfiesLoggerContract(t *testing.T) {
	a := New(logrus.InfoLevel)
	require.NotNil(t, a)

	withField := a.WithField("ticker", "AAPL")
	withFields := a.WithFields(map[string]any{"a": 1, "b": 2})
	withErr := a.WithError(errors.New("boom"))

	require.NotNil(t, withField)
	require.NotNil(t, withFields)
	require.NotNil(t, withErr)

	// None of these should panic; logrus routes them through the entry.
	withField.Info("info message")
	withFields.Debug("debug message")
	withErr.Error("error message")
	a.Warnf("warn %s", "formatted")
}
