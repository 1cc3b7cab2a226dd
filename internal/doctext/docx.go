package doctext

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// ExtractDOCX returns the document body with one line per non-empty paragraph
func ExtractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := paragraphsFromXML(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to parse docx body: %w", err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// paragraphsFromXML walks WordprocessingML and collects the text of each w:p,
// table cells included. Only w:t runs contribute text; w:tab and w:br in runs
// become tab and newline. Paragraph properties are skipped since their w:tab
// elements are tab stop definitions.
func paragraphsFromXML(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		sawBody    bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "body":
				sawBody = true
			case "pPr":
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if line := strings.TrimRight(current.String(), " \t"); strings.TrimSpace(line) != "" {
					paragraphs = append(paragraphs, line)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if !sawBody {
		return nil, fmt.Errorf("missing document body")
	}
	return paragraphs, nil
}
