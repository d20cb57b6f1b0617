package applog_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/tspmip/internal/applog"
)

func TestNewTo_Level(t *testing.T) {
	var buf bytes.Buffer
	l := applog.NewTo(&buf, "debug")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("env_id", "abc").Debug("hello")
	out := buf.String()
	assert.Contains(t, out, "level=debug")
	assert.Contains(t, out, `msg=hello`)
	assert.Contains(t, out, "env_id=abc")
}

func TestNewTo_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := applog.NewTo(&buf, "chatty")
	assert.Equal(t, applog.DefaultLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")

	buf.Reset()
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNew_Stderr(t *testing.T) {
	l := applog.New("warn")
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}
