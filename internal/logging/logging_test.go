package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

type entry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf, Formatter: cblog.JSONFormatter})
	require.NoError(t, err)

	log = log.With("target", "stack")
	log.Info(context.Background(), "starting build")

	var e entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	require.Equal(t, "starting build", e["msg"])
	require.Equal(t, "stack", e["target"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug(context.Background(), "should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerWithIsAdditive(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf, Formatter: cblog.JSONFormatter})
	require.NoError(t, err)

	base := log.With("target", "stack")
	derived := base.With("stage", "build")
	derived.Info(context.Background(), "step")

	var e entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	require.Equal(t, "stack", e["target"])
	require.Equal(t, "build", e["stage"])
}

func TestNoOpLoggerDiscardsEverything(t *testing.T) {
	t.Parallel()

	log := NoOp()
	log.With("a", "b").Info(context.Background(), "ignored")
}
