package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"booklet/internal/resolve"
	"booklet/internal/services"
)

type drawCall struct {
	text string
	opts TextOptions
}

type fakePage struct {
	source string
	index  int
	width  float64
	height float64
	draws  []drawCall
}

func (p *fakePage) Size() (float64, float64) { return p.width, p.height }

func (p *fakePage) DrawText(text string, opts TextOptions) error {
	p.draws = append(p.draws, drawCall{text: text, opts: opts})
	return nil
}

type fakeSource struct {
	path   string
	pages  int
	width  float64
	height float64
}

func (s *fakeSource) Path() string   { return s.path }
func (s *fakeSource) PageCount() int { return s.pages }

type fakeDocument struct {
	fonts FontSet
	pages []*fakePage
}

func (d *fakeDocument) CopyPage(src Source, index int) (Page, error) {
	s := src.(*fakeSource)
	if index < 0 || index >= s.pages {
		return nil, fmt.Errorf("page %d out of range", index)
	}
	page := &fakePage{source: s.path, index: index, width: s.width, height: s.height}
	d.pages = append(d.pages, page)
	return page, nil
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) Save(w io.Writer) error {
	_, err := io.WriteString(w, "fake")
	return err
}

type fakeEngine struct {
	sources map[string]*fakeSource
	doc     *fakeDocument
	opened  []string
}

func (e *fakeEngine) Open(path string) (Source, error) {
	e.opened = append(e.opened, path)
	src, ok := e.sources[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return src, nil
}

func (e *fakeEngine) NewDocument(fonts FontSet) (Document, error) {
	e.doc = &fakeDocument{fonts: fonts}
	return e.doc, nil
}

func newFakeEngine(sources ...*fakeSource) *fakeEngine {
	e := &fakeEngine{sources: map[string]*fakeSource{}}
	for _, s := range sources {
		e.sources[s.path] = s
	}
	return e
}

func letter(path string, pages int) *fakeSource {
	return &fakeSource{path: path, pages: pages, width: 612, height: 792}
}

func TestAssemblePageCountRoundTrip(t *testing.T) {
	engine := newFakeEngine(letter("/a.pdf", 3), letter("/b.pdf", 4), letter("/c.pdf", 1))
	placements := []resolve.Placement{
		{Song: "x/a", SourcePath: "/a.pdf", Mode: resolve.AllPages},
		{Song: "x/b", SourcePath: "/b.pdf", Mode: resolve.FirstPageOnly},
		{Song: "x/c", SourcePath: "/c.pdf", Mode: resolve.AllPages},
		{Song: "x/a2", SourcePath: "/a.pdf", Mode: resolve.AllPages},
	}

	result, err := New(engine, DefaultStyle(), nil).Assemble(context.Background(), placements)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if result.Pages != 3+1+1+3 || result.Document.PageCount() != result.Pages {
		t.Fatalf("unexpected page count %d (document %d)", result.Pages, result.Document.PageCount())
	}

	var order []string
	for _, p := range engine.doc.pages {
		order = append(order, fmt.Sprintf("%s#%d", p.source, p.index))
	}
	want := "/a.pdf#0 /a.pdf#1 /a.pdf#2 /b.pdf#0 /c.pdf#0 /a.pdf#0 /a.pdf#1 /a.pdf#2"
	if got := strings.Join(order, " "); got != want {
		t.Fatalf("page order = %s, want %s", got, want)
	}
	if len(result.Songs) != 4 || result.Songs[1].Pages != 1 {
		t.Fatalf("unexpected per-song summary: %+v", result.Songs)
	}
}

func TestAssembleStampsFirstAndLastPages(t *testing.T) {
	engine := newFakeEngine(letter("/a.pdf", 3))
	placement := resolve.Placement{
		Song:       "x/a",
		SourcePath: "/a.pdf",
		Cue:        `Henrik "Enter"`,
		Tempo:      "120",
		Patch:      "Piano",
		EndNote:    "Fade out",
	}

	if _, err := New(engine, DefaultStyle(), nil).Assemble(context.Background(), []resolve.Placement{placement}); err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	pages := engine.doc.pages
	if got := texts(pages[0]); got != `tempo: 120|Henrik "Enter"|Piano` {
		t.Fatalf("first page draws = %q", got)
	}
	if len(pages[1].draws) != 0 {
		t.Fatalf("middle page should be untouched, got %q", texts(pages[1]))
	}
	if got := texts(pages[2]); got != "Fade out" {
		t.Fatalf("last page draws = %q", got)
	}
}

func TestAssembleSinglePageGetsAllAnnotations(t *testing.T) {
	engine := newFakeEngine(letter("/a.pdf", 5))
	placement := resolve.Placement{
		SourcePath: "/a.pdf",
		Mode:       resolve.FirstPageOnly,
		Cue:        `""`,
		Tempo:      "90",
		EndNote:    "Attacca",
	}

	if _, err := New(engine, DefaultStyle(), nil).Assemble(context.Background(), []resolve.Placement{placement}); err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if len(engine.doc.pages) != 1 {
		t.Fatalf("expected donor page only, got %d pages", len(engine.doc.pages))
	}
	if got := texts(engine.doc.pages[0]); got != `tempo: 90|""|Attacca` {
		t.Fatalf("donor page draws = %q", got)
	}
}

func TestAssemblePositionsScaleWithPageSize(t *testing.T) {
	small := &fakeSource{path: "/small.pdf", pages: 1, width: 300, height: 400}
	engine := newFakeEngine(small)
	placement := resolve.Placement{SourcePath: "/small.pdf", Cue: "c", Tempo: "t", Patch: "p", EndNote: "e"}

	if _, err := New(engine, DefaultStyle(), nil).Assemble(context.Background(), []resolve.Placement{placement}); err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	draws := engine.doc.pages[0].draws
	tests := []struct {
		text       string
		x, y, size float64
		font       string
		color      string
	}{
		{"tempo: t", 30, 384, 13, "Times-Roman", "#000000"},
		{"c", 30, 392, 14, "Times-Italic", "#cc3333"},
		{"p", 210, 392, 13, "Helvetica", "#333380"},
		{"e", 210, 8, 13, "Helvetica", "#338033"},
	}
	if len(draws) != len(tests) {
		t.Fatalf("expected %d draws, got %d", len(tests), len(draws))
	}
	for i, tt := range tests {
		d := draws[i]
		if d.text != tt.text {
			t.Fatalf("draw %d text = %q, want %q", i, d.text, tt.text)
		}
		if !near(d.opts.X, tt.x) || !near(d.opts.Y, tt.y) || d.opts.Size != tt.size {
			t.Fatalf("draw %q at (%g,%g) size %g, want (%g,%g) size %g", d.text, d.opts.X, d.opts.Y, d.opts.Size, tt.x, tt.y, tt.size)
		}
		if d.opts.Font != tt.font || d.opts.Color.Hex() != tt.color {
			t.Fatalf("draw %q font %s colour %s, want %s %s", d.text, d.opts.Font, d.opts.Color.Hex(), tt.font, tt.color)
		}
	}
}

func TestAssembleSkipsEmptyAnnotations(t *testing.T) {
	engine := newFakeEngine(letter("/a.pdf", 2))
	if _, err := New(engine, DefaultStyle(), nil).Assemble(context.Background(), []resolve.Placement{{SourcePath: "/a.pdf"}}); err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	for _, p := range engine.doc.pages {
		if len(p.draws) != 0 {
			t.Fatalf("expected no draws, got %q", texts(p))
		}
	}
}

func TestAssembleUsesConfiguredFonts(t *testing.T) {
	style := DefaultStyle()
	style.Fonts = FontSet{Regular: "Courier", Italic: "Courier-Oblique", Sans: "Helvetica-Bold"}
	engine := newFakeEngine(letter("/a.pdf", 1))
	if _, err := New(engine, style, nil).Assemble(context.Background(), nil); err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if engine.doc.fonts != style.Fonts {
		t.Fatalf("document fonts = %+v", engine.doc.fonts)
	}
}

func TestAssembleOpenFailure(t *testing.T) {
	engine := newFakeEngine(letter("/a.pdf", 1))
	placements := []resolve.Placement{{SourcePath: "/a.pdf"}, {SourcePath: "/missing.pdf"}}
	_, err := New(engine, DefaultStyle(), nil).Assemble(context.Background(), placements)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if !strings.Contains(err.Error(), "/missing.pdf") {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestAssembleRejectsEmptySource(t *testing.T) {
	engine := newFakeEngine(letter("/empty.pdf", 0))
	_, err := New(engine, DefaultStyle(), nil).Assemble(context.Background(), []resolve.Placement{{SourcePath: "/empty.pdf"}})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := newFakeEngine(letter("/a.pdf", 1))
	_, err := New(engine, DefaultStyle(), nil).Assemble(ctx, []resolve.Placement{{SourcePath: "/a.pdf"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(engine.opened) != 0 {
		t.Fatalf("expected no sources opened, got %v", engine.opened)
	}
}

func texts(p *fakePage) string {
	parts := make([]string, 0, len(p.draws))
	for _, d := range p.draws {
		parts = append(parts, d.text)
	}
	return strings.Join(parts, "|")
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
