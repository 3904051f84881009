package booklet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"booklet/internal/assemble"
	"booklet/internal/config"
	"booklet/internal/fileutil"
	"booklet/internal/history"
	"booklet/internal/logging"
	"booklet/internal/pdfengine"
	"booklet/internal/resolve"
	"booklet/internal/services"
	"booklet/internal/sheet"
	"booklet/internal/textutil"
)

// Recorder persists run history.
type Recorder interface {
	Start(ctx context.Context, id, performer string, startedAt time.Time) error
	Finish(ctx context.Context, run history.Run) error
}

// Builder produces booklets for performers.
type Builder struct {
	cfg       *config.Config
	resolver  *resolve.Resolver
	assembler *assemble.Assembler
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	engine  assemble.Engine
	globber resolve.Globber
}

// Option customizes a Builder.
type Option func(*Builder)

// WithEngine replaces the PDF engine.
func WithEngine(engine assemble.Engine) Option {
	return func(b *Builder) { b.engine = engine }
}

// WithGlobber replaces the repertoire enumerator.
func WithGlobber(g resolve.Globber) Option {
	return func(b *Builder) { b.globber = g }
}

// WithRecorder attaches a run ledger.
func WithRecorder(r Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New wires a Builder from configuration.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "booklet", "init", "config is required", nil)
	}
	b := &Builder{
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.engine == nil {
		b.engine = pdfengine.New()
	}
	b.logger = logging.NewComponentLogger(b.logger, "booklet")

	rest, err := resolve.Strategy(cfg.Resolve.RestStrategy)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "booklet", "init", "resolve.rest_strategy", err)
	}
	match, err := resolve.Strategy(cfg.Resolve.MatchStrategy)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "booklet", "init", "resolve.match_strategy", err)
	}
	style, err := assemble.StyleFromConfig(cfg.Annotations)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "booklet", "init", "annotations", err)
	}

	resolverOpts := []resolve.Option{
		resolve.WithRestStrategy(rest),
		resolve.WithMatchStrategy(match),
		resolve.WithLogger(b.logger),
	}
	if b.globber != nil {
		resolverOpts = append(resolverOpts, resolve.WithGlobber(b.globber))
	}
	b.resolver = resolve.New(cfg.Paths.RepertoireDir, resolverOpts...)
	b.assembler = assemble.New(b.engine, style, b.logger)
	return b, nil
}

// OutputPath returns where the performer's booklet is written.
func (b *Builder) OutputPath(performer string) string {
	return filepath.Join(b.cfg.Paths.OutputDir, textutil.SanitizeFileName(performer)+".pdf")
}

func (b *Builder) sheetOptions() sheet.Options {
	return sheet.Options{
		Delimiter: b.cfg.DelimiterRune(),
		FailFast:  b.cfg.Spreadsheet.FailFast,
		Logger:    b.logger,
	}
}

func checkPerformerName(performer string) error {
	if textutil.SanitizeFileName(performer) == "" {
		return services.Wrap(services.ErrValidation, "booklet", "performer", fmt.Sprintf("unusable performer name %q", performer), nil)
	}
	return nil
}

// Plan extracts and resolves without assembling anything.
func (b *Builder) Plan(ctx context.Context, performer string) (*Plan, error) {
	if err := checkPerformerName(performer); err != nil {
		return nil, err
	}
	ctx = services.WithPerformer(ctx, performer)
	placements, err := b.resolve(ctx, performer)
	if err != nil {
		return nil, err
	}
	return &Plan{Performer: performer, OutputPath: b.OutputPath(performer), Placements: placements}, nil
}

func (b *Builder) resolve(ctx context.Context, performer string) ([]resolve.Placement, error) {
	records, err := sheet.Extract(services.WithStage(ctx, "sheet"), b.cfg.Paths.Spreadsheet, performer, b.sheetOptions())
	if err != nil {
		return nil, err
	}
	return b.resolver.Resolve(services.WithStage(ctx, "resolve"), performer, records)
}

// Build runs the full pipeline for one performer. The error is also stored in
// the returned Outcome.
func (b *Builder) Build(ctx context.Context, performer string) Outcome {
	started := b.now()
	out := Outcome{Performer: performer, RunID: b.newID()}
	ctx = services.WithRunID(services.WithPerformer(ctx, performer), out.RunID)
	logger := logging.WithContext(ctx, b.logger)

	if err := checkPerformerName(performer); err != nil {
		out.Err = err
		return out
	}
	out.OutputPath = b.OutputPath(performer)

	b.recordStart(ctx, logger, out.RunID, performer, started)
	logger.Info("booklet build started",
		logging.String(logging.FieldEventType, "build_start"),
		logging.String("output", out.OutputPath),
	)

	out.Err = b.build(ctx, performer, &out)
	out.Duration = b.now().Sub(started)
	b.recordFinish(ctx, logger, out)

	if out.Err != nil {
		logging.Failure(logger, "booklet build failed", "build_failed",
			logging.Error(out.Err),
			logging.String("failure_class", out.FailureClass()),
		)
		return out
	}
	logger.Info("booklet written",
		logging.String(logging.FieldEventType, "build_complete"),
		logging.String("output", out.OutputPath),
		logging.Int("songs", out.Songs),
		logging.Int("pages", out.Pages),
		logging.String("size", out.Size()),
		logging.Duration("duration", out.Duration),
	)
	return out
}

func (b *Builder) build(ctx context.Context, performer string, out *Outcome) error {
	placements, err := b.resolve(ctx, performer)
	if err != nil {
		return err
	}
	out.Songs = len(placements)

	result, err := b.assembler.Assemble(services.WithStage(ctx, "assemble"), placements)
	if err != nil {
		return err
	}
	if result.Pages == 0 {
		return services.Wrap(services.ErrValidation, "booklet", "assemble",
			fmt.Sprintf("performer %q has no songs in %s", performer, b.cfg.Paths.Spreadsheet), nil)
	}
	out.Pages = result.Pages
	out.Contents = result.Songs

	n, err := fileutil.WriteAtomic(out.OutputPath, 0o644, func(w io.Writer) error {
		return result.Document.Save(w)
	})
	if err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			return services.Wrap(services.ErrIO, "booklet", "write", "another run is writing "+out.OutputPath, err)
		}
		return services.Wrap(services.ErrIO, "booklet", "write", out.OutputPath, err)
	}
	out.Bytes = n
	return nil
}

// BuildAll builds every performer in order and returns all outcomes. The
// returned error joins the per-performer failures.
func (b *Builder) BuildAll(ctx context.Context, performers []string) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(performers))
	var errs []error
	for i, performer := range performers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out := b.Build(ctx, performer)
		outcomes = append(outcomes, out)
		if out.Err == nil {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", performer, out.Err))
		if b.cfg.Batch.StopOnError && i < len(performers)-1 {
			b.logger.Warn("batch stopped after failure",
				logging.String(logging.FieldEventType, "batch_stopped"),
				logging.String(logging.FieldPerformer, performer),
				logging.Int("skipped", len(performers)-i-1),
			)
			break
		}
	}

	failed := 0
	for _, o := range outcomes {
		if !o.Succeeded() {
			failed++
		}
	}
	if len(performers) > 1 {
		b.logger.Info("batch finished",
			logging.String(logging.FieldEventType, "batch_complete"),
			logging.Int("performers", len(performers)),
			logging.Int("succeeded", len(outcomes)-failed),
			logging.Int("failed", failed),
			logging.String("failed_performers", failedNames(outcomes)),
		)
	}
	return outcomes, errors.Join(errs...)
}

func failedNames(outcomes []Outcome) string {
	var names []string
	for _, o := range outcomes {
		if !o.Succeeded() {
			names = append(names, o.Performer)
		}
	}
	return strings.Join(names, ", ")
}

func (b *Builder) recordStart(ctx context.Context, logger *slog.Logger, id, performer string, started time.Time) {
	if b.recorder == nil {
		return
	}
	if err := b.recorder.Start(context.WithoutCancel(ctx), id, performer, started); err != nil {
		logger.Warn("run history unavailable",
			logging.String(logging.FieldEventType, "history_write_failed"),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or delete history.db"),
			logging.Error(err),
		)
	}
}

func (b *Builder) recordFinish(ctx context.Context, logger *slog.Logger, out Outcome) {
	if b.recorder == nil {
		return
	}
	run := history.Run{
		ID:         out.RunID,
		Performer:  out.Performer,
		Status:     history.StatusSucceeded,
		Songs:      out.Songs,
		Pages:      out.Pages,
		Bytes:      out.Bytes,
		OutputPath: out.OutputPath,
		FinishedAt: b.now(),
	}
	if out.Err != nil {
		run.Status = history.StatusFailed
		run.FailureClass = out.FailureClass()
		run.ErrorMessage = out.Err.Error()
		run.OutputPath = ""
	}
	if err := b.recorder.Finish(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("run history unavailable",
			logging.String(logging.FieldEventType, "history_write_failed"),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or delete history.db"),
			logging.Error(err),
		)
	}
}
