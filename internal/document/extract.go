// Package document turns uploaded resume files into plain text.
package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// Declared content types accepted or recognised by the upload endpoint.
const (
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// Allowed reports whether mimeType can be extracted.
func Allowed(mimeType string) bool {
	switch mimeType {
	case MIMEDoc, MIMEDocx, MIMEText:
		return true
	}
	return false
}

// Extract returns the raw text of data. Word documents that cannot be read
// as DOCX fall back to their bytes decoded as UTF-8.
func Extract(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MIMEText:
		return strings.ToValidUTF8(string(data), ""), nil
	case MIMEDoc, MIMEDocx:
		text, err := wordText(data)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = errors.New("no text extracted from Word document")
		}
		slog.Warn("word extraction failed, using raw bytes", "type", mimeType, "error", err)
		return strings.ToValidUTF8(string(data), ""), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

func wordText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading docx: %w", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent())
}

// documentXMLText flattens WordprocessingML into text: run text is kept,
// tabs and breaks become whitespace, paragraphs end with a newline.
func documentXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
