package ingest

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFPageCount validates the document at path and returns its page count.
// A file pdfcpu cannot parse is rejected before it reaches the extraction
// service.
func PDFPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := api.PageCount(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("invalid pdf: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid pdf: document has no pages")
	}
	return n, nil
}
