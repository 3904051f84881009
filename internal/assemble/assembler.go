package assemble

import (
	"context"
	"fmt"
	"log/slog"

	"booklet/internal/logging"
	"booklet/internal/resolve"
	"booklet/internal/services"
)

const stageName = "assemble"

// SongPages records what one placement contributed to the booklet.
type SongPages struct {
	Song   string
	Source string
	Pages  int
}

// Result is an assembled, not yet persisted, booklet.
type Result struct {
	Document Document
	Pages    int
	Songs    []SongPages
}

// Assembler stamps and concatenates placement pages.
type Assembler struct {
	engine Engine
	style  Style
	logger *slog.Logger
}

// New constructs an Assembler.
func New(engine Engine, style Style, logger *slog.Logger) *Assembler {
	return &Assembler{
		engine: engine,
		style:  style,
		logger: logging.NewComponentLogger(logger, "assembler"),
	}
}

// Assemble copies the pages of every placement, in order, into a new document.
func (a *Assembler) Assemble(ctx context.Context, placements []resolve.Placement) (*Result, error) {
	doc, err := a.engine.NewDocument(a.style.Fonts)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, stageName, "create document", "", err)
	}
	result := &Result{Document: doc, Songs: make([]SongPages, 0, len(placements))}
	for _, p := range placements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := a.appendPlacement(ctx, doc, p)
		if err != nil {
			return nil, err
		}
		result.Songs = append(result.Songs, SongPages{Song: p.Song, Source: p.SourcePath, Pages: pages})
		result.Pages += pages
	}
	if got := doc.PageCount(); got != result.Pages {
		return nil, services.Wrap(services.ErrExternalTool, stageName, "verify",
			fmt.Sprintf("document has %d pages, expected %d", got, result.Pages), nil)
	}
	a.logger.Debug("booklet assembled",
		logging.Int("songs", len(result.Songs)),
		logging.Int("pages", result.Pages),
	)
	return result, nil
}

func (a *Assembler) appendPlacement(ctx context.Context, doc Document, p resolve.Placement) (int, error) {
	logger := logging.WithContext(services.WithSong(ctx, p.Song), a.logger)
	src, err := a.engine.Open(p.SourcePath)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, stageName, "open source", p.SourcePath, err)
	}
	total := src.PageCount()
	if total < 1 {
		return 0, services.Wrap(services.ErrValidation, stageName, "open source",
			fmt.Sprintf("%s has no pages", p.SourcePath), nil)
	}
	if p.Rest() {
		total = 1
	}
	for i := 0; i < total; i++ {
		page, err := doc.CopyPage(src, i)
		if err != nil {
			return 0, services.Wrap(services.ErrExternalTool, stageName, "copy page",
				fmt.Sprintf("%s page %d", p.SourcePath, i+1), err)
		}
		if err := a.stamp(page, p, i == 0, i == total-1); err != nil {
			return 0, services.Wrap(services.ErrExternalTool, stageName, "annotate",
				fmt.Sprintf("%s page %d", p.SourcePath, i+1), err)
		}
	}
	logger.Debug("song appended",
		logging.String("source", p.SourcePath),
		logging.String("mode", p.Mode.String()),
		logging.Int("pages", total),
	)
	return total, nil
}

// stamp draws the annotations that belong on this page. A single-page song
// gets both the opening and closing annotations.
func (a *Assembler) stamp(page Page, p resolve.Placement, first, last bool) error {
	width, height := page.Size()
	draw := func(role Role, text string) error {
		if text == "" {
			return nil
		}
		return page.DrawText(role.Prefix+text, role.options(width, height))
	}
	if first {
		if err := draw(a.style.Tempo, p.Tempo); err != nil {
			return err
		}
		if err := draw(a.style.Cue, p.Cue); err != nil {
			return err
		}
		if err := draw(a.style.Patch, p.Patch); err != nil {
			return err
		}
	}
	if last {
		if err := draw(a.style.EndNote, p.EndNote); err != nil {
			return err
		}
	}
	return nil
}
