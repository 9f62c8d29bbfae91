// Package extractor turns uploaded documents into plain text.
package extractor

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

const (
	MediaTypePDF      = "application/pdf"
	MediaTypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeDOC      = "application/msword"
	MediaTypeText     = "text/plain"
	MediaTypeMarkdown = "text/markdown"

	mediaTypeOctetStream = "application/octet-stream"
)

// ErrUnsupportedMediaType is returned for media types with no extractor.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Extractor pulls plain text out of one document format.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(data []byte) (string, error)

func (f ExtractorFunc) Extract(data []byte) (string, error) { return f(data) }

var extensionTypes = map[string]string{
	".pdf":      MediaTypePDF,
	".docx":     MediaTypeDOCX,
	".doc":      MediaTypeDOC,
	".txt":      MediaTypeText,
	".md":       MediaTypeMarkdown,
	".markdown": MediaTypeMarkdown,
}

// Registry maps media types to extractors.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a registry with the pdf, docx, doc, text and markdown
// extractors registered.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	r.Register(MediaTypePDF, ExtractorFunc(extractPDF))
	r.Register(MediaTypeDOCX, ExtractorFunc(extractDOCX))
	// Only OOXML content is readable; legacy binary .doc fails extraction.
	r.Register(MediaTypeDOC, ExtractorFunc(extractDOCX))
	r.Register(MediaTypeText, ExtractorFunc(extractText))
	r.Register(MediaTypeMarkdown, ExtractorFunc(extractText))
	return r
}

// Register adds or replaces the extractor for mediaType.
func (r *Registry) Register(mediaType string, e Extractor) {
	r.extractors[mediaType] = e
}

// Supports reports whether mediaType has a registered extractor.
func (r *Registry) Supports(mediaType string) bool {
	_, ok := r.extractors[mediaType]
	return ok
}

// Extract runs the extractor registered for mediaType.
func (r *Registry) Extract(mediaType string, data []byte) (string, error) {
	e, ok := r.extractors[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	if len(data) == 0 {
		return "", errors.New("empty file")
	}
	return e.Extract(data)
}

// ResolveMediaType normalizes a declared content type, dropping parameters.
// An empty or generic binary type is inferred from the filename extension.
func ResolveMediaType(declared, filename string) string {
	mediaType := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	if mediaType == "" || mediaType == mediaTypeOctetStream {
		if inferred, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
			return inferred
		}
	}
	return mediaType
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
