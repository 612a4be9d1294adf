package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &RecordingAPI{}
	scoped := NewScopedAPI("acquisition", rec)

	scoped.ReportWarning("client.get", "escalating")
	scoped.ReportBroken("client.get", "exhausted")
	scoped.ReportCount("client.escalations", 2)
	scoped.ReportDebug("attempt")

	reports := rec.Reports()
	require.Len(t, reports, 4)
	require.Equal(t, "acquisition: client.get", reports[0].ID)
	require.Equal(t, LevelWarning, reports[0].Level)
	require.Equal(t, []any{"escalating"}, reports[0].Params)
	require.Equal(t, LevelBroken, reports[1].Level)
	require.Equal(t, int64(2), reports[2].Count)
	require.Equal(t, "acquisition: attempt", reports[3].ID)

	require.Len(t, rec.Find(LevelWarning, "client.get"), 1)
	require.Empty(t, rec.Find(LevelWarning, "client.escalations"))
}

func TestSlogAPILevels(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	initSlog(&buf, false)

	api := SlogAPI{}
	api.ReportDebug("hidden")
	api.ReportWarning("parser.parse-match-rows", "possession", "n/a")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "id=parser.parse-match-rows")
	require.Contains(t, buf.String(), "params.0=possession")

	buf.Reset()
	initSlog(&buf, true)
	api.ReportDebug("visible")
	require.Contains(t, buf.String(), "visible")
}

func TestSetupWithoutEndpoint(t *testing.T) {
	tracing, err := Setup(context.Background(), "fbref-test", OtlpConfig{})
	require.NoError(t, err)
	require.NoError(t, tracing.Shutdown(context.Background()))
}
