package pdfengine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"booklet/internal/assemble"
)

type draw struct {
	text string
	opts assemble.TextOptions
}

type page struct {
	src   *source
	index int
	draws []draw
}

func (p *page) Size() (float64, float64) {
	d := p.src.dims[p.index]
	return d.Width, d.Height
}

func (p *page) DrawText(text string, opts assemble.TextOptions) error {
	if err := checkFont(opts.Font); err != nil {
		return err
	}
	if opts.Size <= 0 {
		return fmt.Errorf("font size %g must be positive", opts.Size)
	}
	p.draws = append(p.draws, draw{text: text, opts: opts})
	return nil
}

type document struct {
	engine *Engine
	pages  []*page
}

func (d *document) CopyPage(src assemble.Source, index int) (assemble.Page, error) {
	s, ok := src.(*source)
	if !ok {
		return nil, fmt.Errorf("source %s was not opened by this engine", src.Path())
	}
	if index < 0 || index >= len(s.dims) {
		return nil, fmt.Errorf("%s: page %d out of range (1-%d)", s.path, index+1, len(s.dims))
	}
	p := &page{src: s, index: index}
	d.pages = append(d.pages, p)
	return p, nil
}

func (d *document) PageCount() int { return len(d.pages) }

// block is a run of consecutive pages taken from one source in order.
type block struct {
	src   *source
	pages []*page
}

func (d *document) blocks() []block {
	var out []block
	for _, p := range d.pages {
		if n := len(out); n > 0 {
			last := &out[n-1]
			prev := last.pages[len(last.pages)-1]
			if last.src == p.src && p.index == prev.index+1 {
				last.pages = append(last.pages, p)
				continue
			}
		}
		out = append(out, block{src: p.src, pages: []*page{p}})
	}
	return out
}

// Save renders the document and writes it to w.
func (d *document) Save(w io.Writer) error {
	if len(d.pages) == 0 {
		return errors.New("document has no pages")
	}
	blocks := d.blocks()
	rendered := make([]io.ReadSeeker, 0, len(blocks))
	for _, b := range blocks {
		data, err := d.render(b)
		if err != nil {
			return err
		}
		rendered = append(rendered, bytes.NewReader(data))
	}
	if len(rendered) == 1 {
		_, err := io.Copy(w, rendered[0])
		return err
	}
	if err := api.MergeRaw(rendered, w, false, d.engine.configuration()); err != nil {
		return fmt.Errorf("merge pages: %w", err)
	}
	return nil
}

// render cuts the block's pages out of its source and stamps their text.
func (d *document) render(b block) ([]byte, error) {
	first := b.pages[0].index + 1
	last := b.pages[len(b.pages)-1].index + 1
	data := b.src.data
	if !(first == 1 && last == len(b.src.dims)) {
		var out bytes.Buffer
		selection := []string{fmt.Sprintf("%d-%d", first, last)}
		if err := api.Trim(bytes.NewReader(data), &out, selection, d.engine.configuration()); err != nil {
			return nil, fmt.Errorf("extract pages %d-%d of %s: %w", first, last, b.src.path, err)
		}
		data = out.Bytes()
	}
	for i, p := range b.pages {
		for _, dr := range p.draws {
			stamped, err := d.stamp(data, i+1, dr)
			if err != nil {
				return nil, fmt.Errorf("annotate page %d of %s: %w", p.index+1, b.src.path, err)
			}
			data = stamped
		}
	}
	return data, nil
}

// stamp draws dr on page pageNr of data. The text is stamped run by run so
// that sequences the watermark renderer would rewrite reach the page as typed.
func (d *document) stamp(data []byte, pageNr int, dr draw) ([]byte, error) {
	opts := dr.opts
	for _, run := range textRuns(dr.text) {
		wm, err := api.TextWatermark(escapePercent(run), description(opts), true, false, types.POINTS)
		if err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(data), &out, []string{strconv.Itoa(pageNr)}, wm, d.engine.configuration()); err != nil {
			return nil, err
		}
		data = out.Bytes()
		opts.X += font.TextWidth(run, opts.Font, points(opts.Size))
	}
	return data, nil
}

// textRuns cuts text before the letter of a %p, %P, %t or %v placeholder and
// between the characters of a literal \n, the sequences the watermark
// renderer expands. escapePercent protects the percent signs left in each run.
func textRuns(text string) []string {
	var runs []string
	start := 0
	for i := 1; i < len(text); i++ {
		prev, c := text[i-1], text[i]
		if (prev == '%' && strings.IndexByte("pPtv", c) >= 0) || (prev == '\\' && c == 'n') {
			runs = append(runs, text[start:i])
			start = i
		}
	}
	return append(runs, text[start:])
}

// escapePercent adds a percent sign in front of every run of them; the
// renderer emits one percent less than a run holds.
func escapePercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i == 0 || s[i-1] != '%') {
			b.WriteByte('%')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// description renders the watermark parameters that anchor the text's
// bottom-left corner at (X, Y).
func description(opts assemble.TextOptions) string {
	return fmt.Sprintf("fontname:%s, points:%d, position:bl, offset:%s %s, scalefactor:1 abs, rotation:0, fillcolor:%s, opacity:1",
		opts.Font,
		points(opts.Size),
		formatFloat(opts.X),
		formatFloat(opts.Y),
		opts.Color.Hex(),
	)
}

// points rounds a font size to the whole points watermarks use.
func points(size float64) int {
	return int(math.Round(size))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
