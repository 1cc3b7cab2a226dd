// Package doctext turns uploaded resume and cover letter files into plain text.
package doctext

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

const (
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
	FormatText = "txt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document has no readable text")
)

var contentTypes = map[string]string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"application/pdf": FormatPDF,
	"text/plain":      FormatText,
}

// DetectFormat resolves the format from the file extension first and the
// content type second. It returns "" when neither is recognised.
func DetectFormat(fileName, contentType string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return FormatDOCX
	case ".pdf":
		return FormatPDF
	case ".txt":
		return FormatText
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return contentTypes[mt]
	}
	return ""
}

// Extract returns the text of data according to its detected format
func Extract(fileName, contentType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch DetectFormat(fileName, contentType) {
	case FormatDOCX:
		text, err = ExtractDOCX(data)
	case FormatPDF:
		text, err = ExtractPDF(data)
	case FormatText:
		text = DecodeText(data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
