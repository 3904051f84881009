package resolve

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern selects PDFs at any depth below a song folder.
const DefaultPattern = "**/*.pdf"

// Globber enumerates the PDF files below a song directory.
type Globber interface {
	PDFs(ctx context.Context, dir string) ([]string, error)
}

// FSGlobber walks the local filesystem.
type FSGlobber struct {
	// Pattern is matched relative to the song directory. Empty means DefaultPattern.
	Pattern string
}

// PDFs returns the matching regular files under dir as dir-joined paths in
// lexical order. A missing directory yields no paths.
func (g FSGlobber) PDFs(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pattern := g.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}
