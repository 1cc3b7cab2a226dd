package doctext

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractPDF returns the text of every page, pages separated by a blank line
func ExtractPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	pages := make([]string, 0, pageCount)

	for i := 0; i < pageCount; i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}
