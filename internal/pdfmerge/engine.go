package pdfmerge

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"toolszone/internal/domain"
)

// Engine merges an already validated request into one PDF.
type Engine interface {
	Merge(files domain.MergeRequest) ([]byte, error)
}

// ParseError reports which input could not be read as a PDF.
type ParseError struct {
	Index int
	Name  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse file %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PDFCPUEngine merges with pdfcpu. It holds no state between calls.
type PDFCPUEngine struct{}

// NewPDFCPUEngine returns an engine that never touches pdfcpu's on-disk
// config directory.
func NewPDFCPUEngine() *PDFCPUEngine {
	api.DisableConfigDir()
	return &PDFCPUEngine{}
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge parses every input in order and appends all of its pages to the
// output. Any unreadable input fails the whole merge.
func (e *PDFCPUEngine) Merge(files domain.MergeRequest) ([]byte, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	sources := make([]io.ReadSeeker, 0, len(files))
	for i, f := range files {
		n, err := PageCount(f.Bytes)
		if err != nil {
			return nil, &ParseError{Index: i, Name: f.Name, Err: err}
		}
		// pdfcpu cannot append an empty page tree; such inputs add nothing.
		if n == 0 {
			continue
		}
		sources = append(sources, bytes.NewReader(f.Bytes))
	}
	if len(sources) == 0 {
		// Every input was empty; the first one already is an empty document.
		return bytes.Clone(files[0].Bytes), nil
	}

	var out bytes.Buffer
	if err := api.MergeRaw(sources, &out, false, newConfiguration()); err != nil {
		return nil, fmt.Errorf("merge pages: %w", err)
	}
	return out.Bytes(), nil
}

// PageCount parses and validates b and returns its number of pages.
func PageCount(b []byte) (int, error) {
	ctx, err := api.ReadAndValidate(bytes.NewReader(b), newConfiguration())
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}
