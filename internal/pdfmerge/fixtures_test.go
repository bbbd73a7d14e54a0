package pdfmerge

import (
	"testing"

	"toolszone/internal/domain"
	"toolszone/internal/pdfmerge/pdftest"
)

func makePDF(t testing.TB, widths ...float64) []byte {
	t.Helper()
	return pdftest.Build(widths...)
}

func pdfFile(name string, b []byte) domain.UploadedFile {
	return domain.UploadedFile{Name: name, MimeType: domain.PDFMimeType, Bytes: b, Size: int64(len(b))}
}

func pageWidths(t testing.TB, b []byte) []float64 {
	t.Helper()
	w, err := pdftest.PageWidths(b)
	if err != nil {
		t.Fatalf("read merged pdf: %v", err)
	}
	return w
}
