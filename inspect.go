package resumepdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfSignature opens every PDF file.
var pdfSignature = []byte("%PDF-")

// PDFInfo summarizes a generated PDF.
type PDFInfo struct {
	Pages int
	Size  int
}

// Inspect checks the PDF signature and counts pages.
func Inspect(data []byte) (*PDFInfo, error) {
	if !bytes.HasPrefix(data, pdfSignature) {
		return nil, fmt.Errorf("%w: output is not a PDF", ErrEngine)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF: %v", ErrEngine, err)
	}
	return &PDFInfo{Pages: r.NumPage(), Size: len(data)}, nil
}
