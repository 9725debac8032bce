package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validate checks that a path points to a readable, non-empty PDF with at
// least one page. It returns a descriptive error for document-level
// failures; a nil error means the file is worth processing.
func Validate(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filePath)
		}
		return fmt.Errorf("checking file: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		return fmt.Errorf("not a PDF file: %s", filePath)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("corrupted PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return fmt.Errorf("PDF has no pages: %s", filePath)
	}

	return nil
}
