package pdfengine

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"booklet/internal/assemble"
)

var disableConfigDir sync.Once

// Engine opens PDFs from the local filesystem.
type Engine struct{}

// New returns an Engine. pdfcpu's per-user configuration directory is never
// read or created.
func New() *Engine {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Engine{}
}

func (e *Engine) configuration() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// Open reads and validates the PDF at path.
func (e *Engine) Open(path string) (assemble.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dims, err := api.PageDims(bytes.NewReader(data), e.configuration())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &source{path: path, data: data, dims: dims}, nil
}

// NewDocument starts an empty destination document.
func (e *Engine) NewDocument(fonts assemble.FontSet) (assemble.Document, error) {
	for _, name := range []string{fonts.Regular, fonts.Italic, fonts.Sans} {
		if err := checkFont(name); err != nil {
			return nil, err
		}
	}
	return &document{engine: e}, nil
}

type source struct {
	path string
	data []byte
	dims []types.Dim
}

func (s *source) Path() string { return s.path }

func (s *source) PageCount() int { return len(s.dims) }
