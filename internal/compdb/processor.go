package compdb

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/creachadair/atomicfile"
	"github.com/google/uuid"

	"ccmodifier/internal/argops"
	"ccmodifier/internal/errors"
	"ccmodifier/internal/slogutil"
)

// Report summarizes one run over a database.
type Report struct {
	RunID       string `json:"runId"`
	Path        string `json:"path"`
	Output      string `json:"output,omitempty"`
	Entries     int    `json:"entries"`
	Changed     int    `json:"changed"`
	Arguments   int    `json:"arguments"`
	Command     int    `json:"command"`
	Fallback    int    `json:"fallback"`
	Passthrough int    `json:"passthrough"`
}

func (r *Report) count(o Outcome) {
	switch o {
	case OutcomeArguments:
		r.Arguments++
	case OutcomeCommand:
		r.Command++
	case OutcomeFallback:
		r.Fallback++
	default:
		r.Passthrough++
	}
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run", r.RunID),
		slog.String("path", r.Path),
		slog.Int("entries", r.Entries),
		slog.Int("changed", r.Changed),
		slog.Int("arguments", r.Arguments),
		slog.Int("command", r.Command),
		slog.Int("fallback", r.Fallback),
		slog.Int("passthrough", r.Passthrough),
	)
}

// Processor rewrites whole databases.
type Processor struct {
	pipeline argops.Pipeline
	logger   *slog.Logger
	output   string
	dryRun   io.Writer
	atomic   bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for the run and for every entry.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithOutput writes the result to path instead of back over the input.
func WithOutput(path string) Option {
	return func(p *Processor) { p.output = path }
}

// WithDryRun sends the rewritten document to w and leaves the file alone.
func WithDryRun(w io.Writer) Option {
	return func(p *Processor) { p.dryRun = w }
}

// WithAtomicWrite selects between a temp-file-and-rename write (true, the
// default) and truncating the target in place.
func WithAtomicWrite(atomic bool) Option {
	return func(p *Processor) { p.atomic = atomic }
}

// NewProcessor creates a Processor running pipeline over every entry.
func NewProcessor(pipeline argops.Pipeline, opts ...Option) *Processor {
	p := &Processor{
		pipeline: pipeline,
		logger:   slogutil.NewDiscardLogger(),
		atomic:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the database at path, normalizes every entry in order and writes
// the result. Nothing is written unless the whole document parsed.
func (p *Processor) Run(path string) (*Report, error) {
	report := &Report{RunID: uuid.New().String(), Path: path}
	logger := p.logger.With("run", report.RunID)

	db, err := Load(path)
	if err != nil {
		return nil, err
	}
	report.Entries = len(db.Entries)
	logger.Debug("Loaded compilation database", "path", path, "entries", report.Entries,
		"pipeline", p.pipeline.String())

	normalizer := NewNormalizer(p.pipeline, logger)
	for i, e := range db.Entries {
		changed, outcome, err := normalizeEntry(normalizer, e)
		if err != nil {
			return nil, errors.New(errors.InternalError, fmt.Sprintf("cannot rewrite entry %d", i), err)
		}
		report.count(outcome)
		if changed {
			report.Changed++
		}
	}

	data, err := db.Encode()
	if err != nil {
		return nil, err
	}

	if p.dryRun != nil {
		if _, err := p.dryRun.Write(data); err != nil {
			return nil, errors.New(errors.WriteFailed, "cannot write dry-run output", err)
		}
		return report, nil
	}

	out := path
	if p.output != "" {
		out = p.output
	}
	report.Output = out
	if err := writeFile(out, data, p.atomic); err != nil {
		return nil, errors.New(errors.WriteFailed, fmt.Sprintf("cannot write %s", out), err)
	}
	logger.Debug("Wrote compilation database", "path", out, "bytes", len(data), "atomic", p.atomic)
	return report, nil
}

// normalizeEntry normalizes e and reports whether its encoding changed.
func normalizeEntry(n *Normalizer, e *Entry) (bool, Outcome, error) {
	before, err := e.MarshalJSON()
	if err != nil {
		return false, OutcomePassthrough, err
	}
	outcome, err := n.Normalize(e)
	if err != nil {
		return false, outcome, err
	}
	after, err := e.MarshalJSON()
	if err != nil {
		return false, outcome, err
	}
	return !bytes.Equal(before, after), outcome, nil
}

// writeFile replaces path with data, keeping the permissions of an existing
// file.
func writeFile(path string, data []byte, atomic bool) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	if !atomic {
		return os.WriteFile(path, data, mode)
	}

	f, err := atomicfile.New(path, mode)
	if err != nil {
		return err
	}
	defer f.Cancel()

	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Close()
}
