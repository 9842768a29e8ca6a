package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/reqsift/reqsift/internal/id"
	"github.com/reqsift/reqsift/pkg/config"
	"github.com/reqsift/reqsift/pkg/correlate"
	"github.com/reqsift/reqsift/pkg/export"
	"github.com/reqsift/reqsift/pkg/logformat"
	"github.com/reqsift/reqsift/pkg/parse"
	"github.com/reqsift/reqsift/pkg/persist"
	"github.com/reqsift/reqsift/pkg/report"
	"github.com/reqsift/reqsift/pkg/reqlog"
	"github.com/reqsift/reqsift/pkg/tracker"
)

// ErrNoSources is returned when configured source paths match no files.
// Stdin is only read when no paths are configured at all.
var ErrNoSources = errors.New("source paths match no files")

// Result summarizes one completed run.
type Result struct {
	RunID    string
	Sources  []string
	Lines    int
	Parsed   int
	Skipped  int
	Requests int
	Dropped  int
	Evicted  int
	Elapsed  time.Duration

	// Snapshot is the exportable run state, whether or not an export
	// target was configured.
	Snapshot *export.Snapshot
}

// Engine wires the pipeline for one analysis run. Construct, then Run once.
type Engine struct {
	cfg    *config.Config
	sink   report.Sink
	logger *slog.Logger

	// Stdin substitutes for os.Stdin when no source paths are configured.
	// Tests inject readers here.
	Stdin io.Reader
}

// New creates an engine rendering reports to sink.
func New(cfg *config.Config, sink report.Sink, logger *slog.Logger) *Engine {
	return &Engine{cfg: cfg, sink: sink, logger: logger, Stdin: os.Stdin}
}

// Run executes the full pipeline and returns the run summary. Configuration
// problems and tracker strategy errors abort the run; unparsable lines and
// uncorrelatable entries only count toward the summary.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := id.ULID()

	format, err := logformat.Resolve(e.cfg.Format)
	if err != nil {
		return nil, err
	}

	registry, err := e.buildRegistry()
	if err != nil {
		return nil, err
	}

	var aggregator persist.Aggregator
	if e.cfg.Persist != nil {
		jsonl, err := persist.NewJSONL(e.cfg.Persist.Dir)
		if err != nil {
			return nil, err
		}
		aggregator = jsonl
		defer func() { _ = jsonl.Close() }()
	}

	requests := 0
	emit := func(req *reqlog.Request) error {
		if err := registry.Dispatch(req); err != nil {
			return err
		}
		if aggregator != nil {
			if err := aggregator.Persist(req); err != nil {
				return err
			}
		}
		requests++
		return nil
	}

	correlator := correlate.New(e.correlatorConfig(format), emit, e.logger)
	parser := parse.New(format, e.logger)

	sources, err := e.expandSources()
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 && len(e.cfg.Source.Paths) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, strings.Join(e.cfg.Source.Paths, ", "))
	}

	if len(sources) == 0 {
		if _, err := parser.Stream(ctx, e.Stdin, correlator.Observe); err != nil {
			return nil, err
		}
	}
	for _, source := range sources {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open source: %w", err)
		}
		_, err = parser.Stream(ctx, f, correlator.Observe)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}

	if err := correlator.Flush(); err != nil {
		return nil, err
	}

	stats := parser.Stats()
	result := &Result{
		RunID:    runID,
		Sources:  sources,
		Lines:    stats.Lines,
		Parsed:   stats.Parsed,
		Skipped:  stats.Skipped,
		Requests: requests,
		Dropped:  correlator.Dropped(),
		Evicted:  correlator.Evicted(),
		Elapsed:  time.Since(start),
	}

	result.Snapshot = &export.Snapshot{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Source:      strings.Join(sources, ","),
		Format:      format.Name,
		Requests:    requests,
		Trackers:    registry.Exportables(),
	}

	e.renderSummary(result, format.Name)
	registry.Report(e.sink)

	if e.cfg.Export != nil {
		if err := export.WriteFile(e.cfg.Export.Path, result.Snapshot, e.cfg.Export.Format); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// buildRegistry constructs and prepares the run's trackers.
func (e *Engine) buildRegistry() (*tracker.Registry, error) {
	registry := tracker.NewRegistry()
	for _, tc := range e.cfg.Trackers {
		opts := tc.Options
		if opts.Amount == 0 {
			opts.Amount = e.cfg.Report.Amount
		}
		t, err := tracker.New(tc.Type, opts)
		if err != nil {
			return nil, err
		}
		registry.Add(t)
	}
	if err := registry.Prepare(); err != nil {
		return nil, err
	}
	return registry, nil
}

// correlatorConfig layers the run's overrides over the format declaration.
func (e *Engine) correlatorConfig(format *logformat.Format) correlate.Config {
	cfg := correlate.ConfigFromFormat(format.Correlate)
	if o := e.cfg.Correlate; o != nil {
		if o.KeyField != nil {
			cfg.KeyField = *o.KeyField
		}
		if o.StartTypes != nil {
			cfg.StartTypes = o.StartTypes
		}
		if o.TerminalType != nil {
			cfg.TerminalType = *o.TerminalType
		}
		if o.MaxOpen > 0 {
			cfg.MaxOpen = o.MaxOpen
		}
		if o.IdleLines > 0 {
			cfg.IdleLines = o.IdleLines
		}
	}
	return cfg
}

// expandSources resolves the configured path globs against the filesystem,
// deduplicated and sorted for a stable processing order.
func (e *Engine) expandSources() ([]string, error) {
	seen := make(map[string]bool)
	var sources []string
	for _, pattern := range e.cfg.Source.Paths {
		if !strings.ContainsAny(pattern, "*?[{") {
			if !seen[pattern] {
				seen[pattern] = true
				sources = append(sources, pattern)
			}
			continue
		}
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		matches, err := doublestar.Glob(os.DirFS(base), rest)
		if err != nil {
			return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			full := filepath.Join(base, m)
			if !seen[full] {
				seen[full] = true
				sources = append(sources, full)
			}
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// renderSummary prints the run header above the tracker reports.
func (e *Engine) renderSummary(r *Result, formatName string) {
	source := "stdin"
	if len(r.Sources) > 0 {
		source = strings.Join(r.Sources, ", ")
	}
	e.sink.Title("Request log analysis")
	e.sink.Line(fmt.Sprintf("Source:    %s (%s format)", source, formatName))
	e.sink.Line(fmt.Sprintf("Lines:     %d parsed, %d skipped of %d", r.Parsed, r.Skipped, r.Lines))
	e.sink.Line(fmt.Sprintf("Requests:  %d correlated, %d entries dropped, %d evicted", r.Requests, r.Dropped, r.Evicted))
	e.sink.Line(fmt.Sprintf("Elapsed:   %s", r.Elapsed.Round(time.Millisecond)))
}
