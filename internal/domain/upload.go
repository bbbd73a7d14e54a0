package domain

// PDFMimeType is the canonical media type accepted by the merge tool.
const PDFMimeType = "application/pdf"

// UploadedFile is one uploaded blob plus the metadata the client declared
// for it. It lives for a single request.
type UploadedFile struct {
	Name     string
	MimeType string
	Bytes    []byte
	Size     int64
}

// MergeRequest is the ordered list of files to merge. Upload order is
// output order.
type MergeRequest []UploadedFile

// TotalBytes sums the declared sizes.
func (r MergeRequest) TotalBytes() int64 {
	var n int64
	for _, f := range r {
		n += f.Size
	}
	return n
}

// Names returns the file names in order.
func (r MergeRequest) Names() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Name
	}
	return out
}
