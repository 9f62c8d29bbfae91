package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// extractDOCX reads the <w:t> runs of the main document part.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not an OOXML container: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New("docx has no word/document.xml part")
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read document part: %w", err)
	}

	runs, err := textRuns(b)
	if err != nil {
		return "", fmt.Errorf("parse document part: %w", err)
	}
	text := collapseWhitespace(runs)
	if text == "" {
		return "", errors.New("no text extracted from docx")
	}
	return text, nil
}

func textRuns(xmlBytes []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out.String(), nil
		}
		if err != nil {
			return "", err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "t":
			var v string
			if err := dec.DecodeElement(&v, &se); err != nil {
				return "", err
			}
			out.WriteString(v)
		case "p", "tab", "br":
			out.WriteString(" ")
		}
	}
}
