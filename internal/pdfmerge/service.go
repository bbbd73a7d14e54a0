package pdfmerge

import (
	"errors"

	"toolszone/internal/domain"
	"toolszone/internal/infra/logging"
)

// Result is a merged document plus what went into it.
type Result struct {
	PDF       []byte
	FileCount int
	InBytes   int64
}

// Service runs the Validate -> Merge pipeline. One call is one attempt;
// nothing is shared between calls.
type Service struct {
	engine Engine
	limits Limits
}

// NewService wires a merge engine and intake limits.
func NewService(engine Engine, limits Limits) *Service {
	return &Service{engine: engine, limits: limits}
}

// Merge validates files and, only if they pass, merges them. Validation
// failures are returned as-is; every engine failure becomes
// domain.MergeFailed.
func (s *Service) Merge(files domain.MergeRequest) (*Result, error) {
	if err := Validate(files); err != nil {
		return nil, err
	}
	if err := s.limits.Check(files); err != nil {
		return nil, err
	}

	out, err := s.engine.Merge(files)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			logging.Error("PDF merge failed: unreadable input", "index", pe.Index, "file", pe.Name, "error", pe.Err)
		} else {
			logging.Error("PDF merge failed", "files", len(files), "error", err)
		}
		return nil, domain.MergeFailed(err)
	}

	return &Result{PDF: out, FileCount: len(files), InBytes: files.TotalBytes()}, nil
}
