package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"booklet/internal/logging"
	"booklet/internal/services"
	"booklet/internal/textutil"
)

const stageName = "sheet"

// Options tune extraction.
type Options struct {
	// Delimiter separates columns. Zero means tab.
	Delimiter rune
	// FailFast reports a performer missing from the header right after the
	// header row. By default the failure surfaces at the first data row, so a
	// sheet without data rows extracts to an empty result.
	FailFast bool
	Logger   *slog.Logger
}

// Extract opens the spreadsheet at path and returns the performer's records in
// row order.
func Extract(ctx context.Context, path, performer string, opts Options) ([]SongRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, stageName, "open", path, err)
	}
	defer f.Close()
	return Parse(ctx, f, path, performer, opts)
}

// Parse reads spreadsheet rows from r. name identifies the source in errors.
//
// Rows are counted the way a spreadsheet shows them: a blank line is a row
// with one empty cell, so a blank second line is the skipped metadata row and
// a blank line between songs fails as a row with missing fields. Blank lines
// after the last record are ignored. A quoted cell spanning several lines
// belongs to a single row.
func Parse(ctx context.Context, r io.Reader, name, performer string, opts Options) ([]SongRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, stageName, "read", name, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	p := &rowParser{
		name:           name,
		performer:      performer,
		failFast:       opts.FailFast,
		logger:         logging.WithContext(ctx, opts.Logger),
		performerIndex: -1,
	}
	var consumed int64
	nextLine := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, stageName, "read", name, err)
		}
		line, _ := reader.FieldPos(0)
		for ; nextLine < line; nextLine++ {
			if err := p.row(nextLine, []string{""}); err != nil {
				return nil, err
			}
		}
		if err := p.row(line, cells); err != nil {
			return nil, err
		}
		offset := reader.InputOffset()
		nextLine += bytes.Count(data[consumed:offset], []byte{'\n'})
		consumed = offset
	}

	p.logger.Debug("spreadsheet extracted",
		logging.String("file", name),
		logging.Int("songs", len(p.records)),
		logging.Int("performer_column", p.performerIndex),
	)
	return p.records, nil
}

type rowParser struct {
	name      string
	performer string
	failFast  bool
	logger    *slog.Logger

	index          int
	header         []string
	performerIndex int
	records        []SongRecord
}

// row handles the spreadsheet row starting at line.
func (p *rowParser) row(line int, cells []string) error {
	index := p.index
	p.index++

	switch index {
	case 0:
		p.header = cells
		p.performerIndex = findPerformer(cells, p.performer)
		if p.failFast {
			return checkPerformerColumn(p.name, p.performer, p.performerIndex, p.header)
		}
		return nil
	case 1:
		// secondary metadata row
		return nil
	}

	if err := checkPerformerColumn(p.name, p.performer, p.performerIndex, p.header); err != nil {
		return err
	}
	rec, missing := assignRow(cells, p.performerIndex)
	if len(missing) > 0 {
		p.logger.Debug("row rejected",
			logging.Int("line", line),
			logging.String("folder", rec.SongFolder),
			logging.Any("file_tokens", rec.FileTokens),
		)
		return services.Wrap(services.ErrValidation, stageName, "parse row",
			fmt.Sprintf("failed to parse %s at line %d: missing %s; is every field present for performer %q?",
				p.name, line, strings.Join(missing, ", "), p.performer), nil)
	}
	rec.Row = line
	p.records = append(p.records, rec)
	return nil
}

// findPerformer returns the zero-based column whose header equals performer,
// or -1. A name repeated in the header resolves to its last column.
func findPerformer(header []string, performer string) int {
	index := -1
	for i, cell := range header {
		if cell == performer {
			index = i
		}
	}
	return index
}

func checkPerformerColumn(name, performer string, index int, header []string) error {
	if index < 0 {
		msg := fmt.Sprintf("did not find performer %q in file %s", performer, name)
		if hints := textutil.Suggest(performer, header, 3); len(hints) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", quoteJoin(hints))
		}
		return services.Wrap(services.ErrNotFound, stageName, "find performer", msg, nil)
	}
	if index < FixedColumns {
		return services.Wrap(services.ErrValidation, stageName, "find performer",
			fmt.Sprintf("performer %q column %d overlaps the %d fixed song columns in %s", performer, index, FixedColumns, name), nil)
	}
	return nil
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, " or ")
}

// assignRow maps cells onto a record in one ascending pass. A column matching
// both a fixed role and a performer role feeds the fixed role only. The second
// return value names every field the row failed to supply.
func assignRow(cells []string, performerIndex int) (SongRecord, []string) {
	var (
		rec     SongRecord
		present [11]bool
	)
	for i, cell := range cells {
		switch i {
		case 0:
			rec.Category, present[0] = cell, true
		case 1:
			rec.SongFolder, present[1] = cell, true
		case 2:
			rec.PriorAct, present[2] = cell, true
		case 3:
			rec.Nickname, present[3] = cell, true
		case 4:
			rec.CueText, present[4] = cell, true
		case 5:
			rec.GlobalEndNote, present[5] = cell, true
		case 6:
			rec.Tempo, present[6] = cell, true
		case 7:
			rec.StartingPerformer, present[7] = cell, true
		case performerIndex:
			rec.FileTokens, present[8] = splitTokens(cell), true
		case performerIndex + 1:
			rec.Patch, present[9] = cell, true
		case performerIndex + 2:
			rec.EndNote, present[10] = cell, true
		}
	}

	names := [...]string{
		"category", "song folder", "prior act", "nickname", "cue", "global end note",
		"tempo", "starting performer", "file names", "patch", "end note",
	}
	var missing []string
	for i, ok := range present {
		if !ok {
			missing = append(missing, names[i])
		}
	}
	if present[8] && len(rec.FileTokens) == 0 {
		missing = append(missing, names[8])
	}
	return rec, missing
}

func splitTokens(cell string) []string {
	parts := strings.Split(cell, "|")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
