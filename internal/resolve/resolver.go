package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"booklet/internal/logging"
	"booklet/internal/services"
	"booklet/internal/sheet"
)

const stageName = "resolve"

// Resolver maps song records onto placements.
type Resolver struct {
	root    string
	globber Globber
	rest    TieBreaker
	match   TieBreaker
	logger  *slog.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithGlobber replaces the filesystem enumerator.
func WithGlobber(g Globber) Option {
	return func(r *Resolver) {
		if g != nil {
			r.globber = g
		}
	}
}

// WithRestStrategy sets the tie-breaker used to pick donor pages.
func WithRestStrategy(tb TieBreaker) Option {
	return func(r *Resolver) {
		if tb != nil {
			r.rest = tb
		}
	}
}

// WithMatchStrategy sets the tie-breaker used when several files qualify.
func WithMatchStrategy(tb TieBreaker) Option {
	return func(r *Resolver) {
		if tb != nil {
			r.match = tb
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New returns a resolver rooted at the repertoire directory.
func New(root string, opts ...Option) *Resolver {
	r := &Resolver{
		root:    root,
		globber: FSGlobber{},
		rest:    ShortestPath,
		match:   LongestPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "resolver")
	return r
}

// Resolve returns one placement per record, in record order. The first song
// that cannot be resolved aborts the run.
func (r *Resolver) Resolve(ctx context.Context, performer string, records []sheet.SongRecord) ([]Placement, error) {
	placements := make([]Placement, 0, len(records))
	for _, rec := range records {
		p, err := r.ResolveOne(ctx, performer, rec)
		if err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}
	return placements, nil
}

// ResolveOne resolves a single record.
func (r *Resolver) ResolveOne(ctx context.Context, performer string, rec sheet.SongRecord) (Placement, error) {
	if err := ctx.Err(); err != nil {
		return Placement{}, err
	}
	song := rec.Label()
	ctx = services.WithSong(ctx, song)
	logger := logging.WithContext(ctx, r.logger)

	dir := filepath.Join(r.root, rec.Category, rec.SongFolder)
	paths, err := r.globber.PDFs(ctx, dir)
	if err != nil {
		return Placement{}, services.Wrap(services.ErrIO, stageName, "enumerate", dir, err)
	}
	if len(paths) == 0 {
		return Placement{}, services.Wrap(services.ErrNotFound, stageName, "enumerate",
			fmt.Sprintf("did not find any PDF files for song %s", song), nil)
	}

	placement := Placement{Song: song}
	if rec.Rests() {
		placement.SourcePath = r.rest(performer, paths)
		placement.Mode = FirstPageOnly
		placement.Candidates = len(paths)
		logger.Debug("donor page chosen", logging.Decision("rest_donor", filepath.Base(placement.SourcePath), "performer rests",
			logging.String("path", placement.SourcePath),
			logging.Int("files", len(paths)),
		)...)
		return annotate(placement, rec), nil
	}

	candidates := Filter(paths, rec.FileTokens)
	switch len(candidates) {
	case 0:
		logger.Info("available PDFs for song", logging.String("files", strings.Join(basenames(paths), ", ")))
		return Placement{}, services.Wrap(services.ErrNotFound, stageName, "match",
			fmt.Sprintf("did not find any PDFs for performer %s for song %s with file names %s (available: %s)",
				performer, song, strings.Join(rec.FileTokens, ","), strings.Join(basenames(paths), ", ")), nil)
	case 1:
		placement.SourcePath = candidates[0]
	default:
		logger.Info("multiple PDFs matched",
			logging.Int("candidates", len(candidates)),
			logging.String("matching", strings.Join(basenames(candidates), ", ")),
		)
		placement.SourcePath = r.match(performer, candidates)
	}
	placement.Mode = AllPages
	placement.Candidates = len(candidates)
	logger.Info("pdf chosen", logging.Decision("performer_pdf", filepath.Base(placement.SourcePath), tieReason(len(candidates)),
		logging.String("path", placement.SourcePath),
	)...)
	return annotate(placement, rec), nil
}

func tieReason(n int) string {
	if n == 1 {
		return "single match"
	}
	return fmt.Sprintf("tie-break among %d matches", n)
}
