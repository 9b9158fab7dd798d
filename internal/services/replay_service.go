package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"sevenguis/internal/models"
	"sevenguis/pkg/logging"
	"sevenguis/pkg/metrics"
)

// Replay directives
const (
	DirectiveCelsius    = "celsius"
	DirectiveFahrenheit = "fahrenheit"
	DirectiveIncrement  = "increment"
)

// ReplayService drives a fresh mount from an edit script, one line per input event
type ReplayService struct {
	widgets *WidgetService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// ReplayStep is the outcome of one script line
type ReplayStep struct {
	Line        int
	Directive   string
	Text        string
	Temperature TemperatureSnapshot
	Count       int
}

// ReplayResult contains replay statistics
type ReplayResult struct {
	TotalLines  int
	Edits       int
	FailedEdits int
	Increments  int
	Skipped     int
	Steps       []ReplayStep
	Final       MountSnapshot
	Duration    time.Duration
	Errors      []string
}

// NewReplayService creates a new replay service
func NewReplayService(widgets *WidgetService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ReplayService {
	return &ReplayService{
		widgets: widgets,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ReplayFile replays the script at path
func (s *ReplayService) ReplayFile(ctx context.Context, path string, view TemperatureView) (*ReplayResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer file.Close()

	return s.Replay(ctx, file, view)
}

// Replay feeds every line of r to a newly mounted widget pair.
//
// Script format, one directive per line:
//
//	c <text>, celsius <text>        edit the Celsius field
//	f <text>, fahrenheit <text>     edit the Fahrenheit field
//	inc, increment                  activate the counter
//
// The edit text is everything after the first whitespace character, kept verbatim. Blank
// lines and lines starting with # are ignored.
func (s *ReplayService) Replay(ctx context.Context, r io.Reader, view TemperatureView) (*ReplayResult, error) {
	timer := s.metrics.NewTimer(s.metrics.ReplayDuration)

	mount := s.widgets.Mount(ctx)
	ctx = logging.WithWidgetID(ctx, mount.ID)
	defer func() {
		if err := s.widgets.Unmount(ctx, mount.ID); err != nil {
			s.logger.Warn(ctx, "[REPLAY_UNMOUNT] Replay mount was already discarded", logging.Fields{
				"error": err.Error(),
			})
		}
	}()

	mount.Temperature.Attach(view)

	s.logger.Info(ctx, "[REPLAY_START] Starting edit replay", logging.Fields{
		"stage": "INITIALIZATION",
	})

	result := &ReplayResult{
		Steps:  make([]ReplayStep, 0),
		Errors: make([]string, 0),
	}

	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		result.TotalLines++

		directive, text, err := parseDirective(line)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNo, err))
			s.metrics.RecordReplayStep("unknown")
			continue
		}
		s.metrics.RecordReplayStep(directive)

		step := ReplayStep{Line: lineNo, Directive: directive, Text: text}
		switch directive {
		case DirectiveIncrement:
			step.Count = mount.Counter.Increment(ctx)
			step.Temperature = mount.Temperature.Snapshot()
			result.Increments++
		default:
			edit := models.CelsiusEdit(text)
			if directive == DirectiveFahrenheit {
				edit = models.FahrenheitEdit(text)
			}
			step.Temperature = mount.Temperature.Handle(ctx, edit)
			step.Count = mount.Counter.Value()
			result.Edits++
			if !step.Temperature.For(edit.Unit).Valid {
				result.FailedEdits++
			}
		}
		result.Steps = append(result.Steps, step)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script: %w", err)
	}

	result.Final = mount.Snapshot()
	result.Duration = timer.ObserveDuration()

	s.logger.Info(ctx, "[REPLAY_COMPLETE] Edit replay completed", logging.Fields{
		"total_lines":      result.TotalLines,
		"edits":            result.Edits,
		"failed_edits":     result.FailedEdits,
		"increments":       result.Increments,
		"skipped":          result.Skipped,
		"duration_seconds": result.Duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return result, nil
}

// parseDirective splits a script line into its directive and edit text.
// The keyword ends at the first whitespace character; the text after it is
// kept verbatim.
func parseDirective(line string) (string, string, error) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	keyword, text := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		_, size := utf8.DecodeRuneInString(line[i:])
		keyword, text = line[:i], line[i+size:]
	}

	switch strings.ToLower(keyword) {
	case "inc", "increment":
		return DirectiveIncrement, "", nil
	}

	unit, err := models.ParseUnit(keyword)
	if err != nil {
		return "", "", fmt.Errorf("unknown directive %q", keyword)
	}
	if unit == models.Fahrenheit {
		return DirectiveFahrenheit, text, nil
	}
	return DirectiveCelsius, text, nil
}
