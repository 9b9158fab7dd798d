package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevenguis/internal/models"
	"sevenguis/pkg/logging"
	"sevenguis/pkg/metrics"
)

const sampleScript = `# scenario from the converter docs
c abc
c 100
inc
c abc
f 50
increment
fahrenheit
kelvin 12
`

func TestReplayService_Replay(t *testing.T) {
	logger, m := newTestDeps()
	widgets := NewWidgetService(4, logger, m)
	svc := NewReplayService(widgets, logger, m)
	view := &recordingView{}

	result, err := svc.Replay(context.Background(), strings.NewReader(sampleScript), view)
	require.NoError(t, err)

	assert.Equal(t, 8, result.TotalLines)
	assert.Equal(t, 5, result.Edits)
	assert.Equal(t, 3, result.FailedEdits)
	assert.Equal(t, 2, result.Increments)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 9")
	require.Len(t, result.Steps, 7)

	first := result.Steps[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, DirectiveCelsius, first.Directive)
	assert.Equal(t, models.Display{Valid: false, Text: "abc"}, first.Temperature.Celsius)
	assert.Equal(t, models.Display{Valid: true, Text: "32"}, first.Temperature.Fahrenheit)

	assert.Equal(t, "212", result.Steps[1].Temperature.Fahrenheit.Text)
	assert.Equal(t, 1, result.Steps[2].Count)

	crossClear := result.Steps[4]
	assert.Equal(t, models.Display{Valid: true, Text: "10"}, crossClear.Temperature.Celsius)

	last := result.Steps[6]
	assert.Equal(t, DirectiveFahrenheit, last.Directive)
	assert.Equal(t, "", last.Text)
	assert.Equal(t, models.Display{Valid: false, Text: ""}, last.Temperature.Fahrenheit)

	assert.Equal(t, 2, result.Final.Count)

	// initial render plus one per edit
	assert.Len(t, view.renders, 1+result.Edits)

	// the replay mount is discarded afterwards
	assert.Equal(t, 0, widgets.Len())
}

func TestReplayService_TextIsVerbatim(t *testing.T) {
	logger, m := newTestDeps()
	svc := NewReplayService(NewWidgetService(4, logger, m), logger, m)

	result, err := svc.Replay(context.Background(), strings.NewReader("c  12 \n"), nil)
	require.NoError(t, err)
	require.Len(t, result.Steps, 1)

	assert.Equal(t, " 12 ", result.Steps[0].Text)
	assert.False(t, result.Steps[0].Temperature.Celsius.Valid)
}

func TestReplayService_ReplayFile(t *testing.T) {
	logger, m := newTestDeps()
	svc := NewReplayService(NewWidgetService(4, logger, m), logger, m)

	path := filepath.Join(t.TempDir(), "edits.txt")
	require.NoError(t, os.WriteFile(path, []byte("f 50\r\n"), 0o600))

	result, err := svc.ReplayFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "10", result.Final.Temperature.Celsius.Text)

	_, err = svc.ReplayFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		line      string
		directive string
		text      string
		wantErr   bool
	}{
		{line: "c 1", directive: DirectiveCelsius, text: "1"},
		{line: "Celsius -4.5", directive: DirectiveCelsius, text: "-4.5"},
		{line: "F 98.6", directive: DirectiveFahrenheit, text: "98.6"},
		{line: "f", directive: DirectiveFahrenheit, text: ""},
		{line: "inc", directive: DirectiveIncrement},
		{line: "INCREMENT now", directive: DirectiveIncrement},
		{line: "  c 5", directive: DirectiveCelsius, text: "5"},
		{line: "c\t5", directive: DirectiveCelsius, text: "5"},
		{line: "f\t 5", directive: DirectiveFahrenheit, text: " 5"},
		{line: "k 1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			directive, text, err := parseDirective(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.directive, directive)
			assert.Equal(t, tt.text, text)
		})
	}
}

// evictingView mounts another widget pair on every render, pushing the replay
// mount out of a registry with capacity one
type evictingView struct {
	widgets *WidgetService
}

func (v *evictingView) Render(celsius, fahrenheit models.Display) {
	v.widgets.Mount(context.Background())
}

func TestReplayService_ReportsEvictedMount(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger("sevenguis", "test", logging.InfoLevel)
	logger.SetOutput(&buf)
	m := metrics.NewCollector("test", prometheus.NewRegistry())

	widgets := NewWidgetService(1, logger, m)
	svc := NewReplayService(widgets, logger, m)

	result, err := svc.Replay(context.Background(), strings.NewReader("c 100\ninc\n"), &evictingView{widgets: widgets})
	require.NoError(t, err)

	assert.Equal(t, "212", result.Final.Temperature.Fahrenheit.Text)
	assert.Equal(t, 1, result.Final.Count)
	assert.Contains(t, buf.String(), "[REPLAY_UNMOUNT]")
	assert.Contains(t, buf.String(), ErrMountNotFound.Error())
}
