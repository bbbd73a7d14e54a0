package pdfmerge

import (
	"toolszone/internal/domain"
)

// MinFiles is the smallest number of inputs a merge accepts.
const MinFiles = 2

// Validate checks a merge request before any file is parsed. It returns one
// of domain.ErrNoFiles, domain.ErrTooFewFiles or domain.ErrInvalidType.
func Validate(files domain.MergeRequest) error {
	if len(files) == 0 {
		return domain.ErrNoFiles
	}
	if len(files) < MinFiles {
		return domain.ErrTooFewFiles
	}
	for _, f := range files {
		if f.MimeType != domain.PDFMimeType {
			return domain.ErrInvalidType
		}
	}
	return nil
}

// Limits bounds a request at the intake boundary. Zero values disable a check.
type Limits struct {
	MaxFiles     int
	MaxFileBytes int64
}

// Check applies the configured limits. It runs after Validate.
func (l Limits) Check(files domain.MergeRequest) error {
	if l.MaxFiles > 0 && len(files) > l.MaxFiles {
		return domain.ErrTooManyFiles
	}
	if l.MaxFileBytes > 0 {
		for _, f := range files {
			if f.Size > l.MaxFileBytes {
				return domain.ErrFileTooLarge
			}
		}
	}
	return nil
}
