package assemble

import "io"

// FontSet names the base fonts embedded for each font role.
type FontSet struct {
	Regular string
	Italic  string
	Sans    string
}

// TextOptions positions one piece of text on a page. X and Y are absolute
// page coordinates measured from the bottom-left corner.
type TextOptions struct {
	X     float64
	Y     float64
	Size  float64
	Font  string
	Color Color
}

// Engine opens source documents and creates destination documents.
type Engine interface {
	Open(path string) (Source, error)
	NewDocument(fonts FontSet) (Document, error)
}

// Source is a loaded, read-only PDF.
type Source interface {
	Path() string
	PageCount() int
}

// Document is the destination being assembled.
type Document interface {
	// CopyPage appends page index (zero-based) of src and returns it for
	// annotation.
	CopyPage(src Source, index int) (Page, error)
	PageCount() int
	Save(w io.Writer) error
}

// Page is a page already appended to a Document.
type Page interface {
	Size() (width, height float64)
	DrawText(text string, opts TextOptions) error
}
