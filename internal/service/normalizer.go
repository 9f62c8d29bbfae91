package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"quizzy/internal/adapter/extractor"
	"quizzy/internal/domain"
	"quizzy/internal/logger"

	"go.uber.org/zap"
)

// UploadedFile is a document received from a client.
type UploadedFile struct {
	Filename  string
	MediaType string
	Data      []byte
}

// ContentNormalizer validates raw input and reduces it to bounded plain text.
type ContentNormalizer struct {
	extractors *extractor.Registry
}

func NewContentNormalizer(extractors *extractor.Registry) *ContentNormalizer {
	return &ContentNormalizer{extractors: extractors}
}

// Normalize prefers the file when both a file and text are given. The result
// holds at least domain.MinContentChars characters and at most
// domain.MaxContentChars; longer text is cut at the tail.
func (n *ContentNormalizer) Normalize(file *UploadedFile, text string) (domain.NormalizedContent, error) {
	var (
		content    string
		sourceType domain.SourceType
	)

	switch {
	case file != nil:
		mediaType := extractor.ResolveMediaType(file.MediaType, file.Filename)
		if !n.extractors.Supports(mediaType) {
			return domain.NormalizedContent{}, domain.NewUnsupportedFormatError(mediaType)
		}
		extracted, err := n.extractors.Extract(mediaType, file.Data)
		if err != nil {
			if errors.Is(err, extractor.ErrUnsupportedMediaType) {
				return domain.NormalizedContent{}, domain.NewUnsupportedFormatError(mediaType)
			}
			logger.Get().Warn("Text extraction failed",
				zap.String("filename", file.Filename),
				zap.String("media_type", mediaType),
				zap.Error(err))
			return domain.NormalizedContent{}, domain.NewExtractionFailedError(err)
		}
		content, sourceType = extracted, domain.SourceTypeFile
	case text != "":
		content, sourceType = text, domain.SourceTypeText
	default:
		return domain.NormalizedContent{}, domain.ValidationErrors{domain.NewMissingFieldError("text")}
	}

	if strings.TrimSpace(content) == "" || utf8.RuneCountInString(content) < domain.MinContentChars {
		return domain.NormalizedContent{}, domain.NewContentTooShortError(domain.MinContentChars)
	}
	if utf8.RuneCountInString(content) > domain.MaxContentChars {
		content = domain.TruncateChars(content, domain.MaxContentChars)
	}

	return domain.NormalizedContent{Text: content, SourceType: sourceType}, nil
}
