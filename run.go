package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	gitignore "github.com/monochromegane/go-gitignore"
)

const (
	defaultOutputFile = "folder_mapping.md"
	defaultJSONFile   = "folder_structure.json"
	defaultMaxDepth   = 100
	defaultMaxWorkers = 8
	defaultChunkSize  = 5000
)

// runState names the phases of a mapping run.
type runState int

const (
	stateIdle runState = iota
	stateExtracting
	stateWalking
	stateRendering
	stateDone
	stateFailed
)

func (s runState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateExtracting:
		return "extracting"
	case stateWalking:
		return "walking"
	case stateRendering:
		return "rendering"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// normalize applies defaults and validates the run options.
func (o *Options) normalize() error {
	if o.Input == "" {
		return fmt.Errorf("no input path given")
	}
	if o.OutputPath == "" {
		o.OutputPath = defaultOutputFile
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = defaultMaxWorkers
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	return nil
}

// Orchestrator drives one mapping run through its phases and owns the
// working-tree lifecycle. A run moves idle -> extracting -> walking ->
// rendering -> done, or to failed from any phase; either way the working
// tree is cleaned up exactly once.
type Orchestrator struct {
	opts  Options
	log   *slog.Logger
	state runState

	describer *Describer
	stats     *Stats
	source    *Source
	items     []StructureItem
	run       RunInfo
}

func newOrchestrator(opts Options, log *slog.Logger) (*Orchestrator, error) {
	describer, err := newDescriber()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{opts: opts, log: log, state: stateIdle, describer: describer}, nil
}

// State returns the current run phase.
func (o *Orchestrator) State() runState { return o.state }

// Run executes the full pipeline. Extraction and render failures are fatal;
// per-item failures are counted and never abort the run.
func (o *Orchestrator) Run(ctx context.Context) (res Result, err error) {
	o.run = RunInfo{ID: uuid.NewString(), Source: o.opts.Input, StartedAt: time.Now()}
	o.stats = newStats(o.run.StartedAt)
	log := o.log.With("run_id", o.run.ID)

	defer func() {
		o.source.Cleanup(log)
		if err != nil {
			o.transition(stateFailed, log)
			snap := o.stats.Snapshot()
			log.Error("mapping run failed",
				"error", err,
				"files", snap.ProcessedFiles,
				"folders", snap.ProcessedFolders,
				"errors", snap.ErrorsEncountered)
		}
	}()

	log.Info("starting folder mapping", "input", o.opts.Input, "output", o.opts.OutputPath)

	o.transition(stateExtracting, log)
	source, err := resolveSource(o.opts.Input, log)
	if err != nil {
		return Result{}, err
	}
	o.source = source

	o.transition(stateWalking, log)
	if err = o.walkAndClassify(ctx, log); err != nil {
		return Result{}, err
	}

	o.transition(stateRendering, log)
	res, err = o.render(log)
	if err != nil {
		return Result{}, err
	}

	o.transition(stateDone, log)
	log.Info("process completed successfully",
		"elapsed", time.Since(o.run.StartedAt).Round(time.Millisecond).String(),
		"report", res.ReportPath)
	return res, nil
}

func (o *Orchestrator) transition(to runState, log *slog.Logger) {
	log.Debug("state transition", "from", o.state.String(), "to", to.String())
	o.state = to
}

// walkAndClassify consumes walker batches strictly in sequence; only the
// classification inside each batch runs concurrently.
func (o *Orchestrator) walkAndClassify(ctx context.Context, log *slog.Logger) error {
	var ignore gitignore.IgnoreMatcher
	if o.opts.IgnoreFile != "" {
		matcher, err := gitignore.NewGitIgnore(o.opts.IgnoreFile, o.source.Root)
		if err != nil {
			return fmt.Errorf("could not parse ignore file %s: %w", o.opts.IgnoreFile, err)
		}
		ignore = matcher
	}

	walker := newWalker(o.source.Root, o.opts.MaxDepth, o.opts.ChunkSize, ignore, log)
	classifier := newClassifier(o.describer, o.stats, o.opts.MaxWorkers, log)

	var lastMilestone int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, ok := walker.Next()
		if !ok {
			break
		}
		o.items = append(o.items, classifier.ClassifyBatch(batch)...)

		snap := o.stats.Snapshot()
		if milestone := snap.ProcessedFiles / 1000; milestone > lastMilestone {
			lastMilestone = milestone
			log.Info("progress",
				"files", snap.ProcessedFiles,
				"folders", snap.ProcessedFolders,
				"elapsed", time.Since(snap.StartTime).Round(time.Millisecond).String())
		}
	}

	snap := o.stats.Snapshot()
	log.Info("mapping completed", "files", snap.ProcessedFiles, "folders", snap.ProcessedFolders)
	return nil
}

// render writes the markdown report and any requested artifacts. Artifacts
// go through atomic writes, so readers never observe a partial report.
func (o *Orchestrator) render(log *slog.Logger) (Result, error) {
	o.run.GeneratedAt = time.Now()
	snap := o.stats.Snapshot()

	markdown := renderMarkdown(o.items, snap, o.run)
	if err := writeFileAtomic(o.opts.OutputPath, []byte(markdown), 0o644); err != nil {
		return Result{}, &RenderError{Path: o.opts.OutputPath, Err: err}
	}
	log.Info("markdown report generated", "path", o.opts.OutputPath)

	res := Result{ReportPath: o.opts.OutputPath, ItemCount: len(o.items), Stats: snap}

	if o.opts.JSONPath != "" {
		data, err := renderJSON(o.items, snap, o.run)
		if err != nil {
			return Result{}, &RenderError{Path: o.opts.JSONPath, Err: err}
		}
		if err := writeFileAtomic(o.opts.JSONPath, data, 0o644); err != nil {
			return Result{}, &RenderError{Path: o.opts.JSONPath, Err: err}
		}
		res.JSONPath = o.opts.JSONPath
		log.Info("json artifact generated", "path", o.opts.JSONPath)
	}

	if o.opts.PDFPath != "" {
		if err := renderPDF(o.items, snap, o.run, o.opts.PDFPath); err != nil {
			return Result{}, &RenderError{Path: o.opts.PDFPath, Err: err}
		}
		log.Info("pdf artifact generated", "path", o.opts.PDFPath)
	}

	if o.opts.Clipboard {
		if err := clipboard.WriteAll(markdown); err != nil {
			// Headless environments have no clipboard; the report is already
			// on disk, so this only warns.
			log.Warn("could not copy report to clipboard", "error", err)
		} else {
			log.Info("report copied to clipboard")
		}
	}

	return res, nil
}
