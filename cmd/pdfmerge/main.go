package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"toolszone/internal/domain"
	"toolszone/internal/pdfmerge"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var output string
	var maxFiles int

	cmd := &cobra.Command{
		Use:     "pdfmerge [files...]",
		Short:   "Merge PDF files in the order given",
		Version: Version,
		Long: `Merge two or more local PDF files into one document.
Pages are copied in input order; the file type is taken from the extension.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(args)
			if err != nil {
				return err
			}

			svc := pdfmerge.NewService(pdfmerge.NewPDFCPUEngine(), pdfmerge.Limits{MaxFiles: maxFiles})
			res, err := svc.Merge(files)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, res.PDF, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d files into %s (%d bytes)\n", res.FileCount, output, len(res.PDF))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "merged.pdf", "Output file")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Maximum number of input files (0 means no limit)")

	return cmd
}

// readFiles loads each path as an upload. The mime type comes from the
// extension, so a renamed non-PDF is rejected by the validator.
func readFiles(paths []string) (domain.MergeRequest, error) {
	files := make(domain.MergeRequest, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = mt[:i]
		}
		files = append(files, domain.UploadedFile{
			Name:     filepath.Base(p),
			MimeType: mt,
			Bytes:    b,
			Size:     int64(len(b)),
		})
	}
	return files, nil
}
