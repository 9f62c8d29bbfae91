package extractor

import "strings"

const utf8BOM = "\ufeff"

// extractText decodes UTF-8 text and markdown. Invalid sequences are replaced
// rather than rejected.
func extractText(data []byte) (string, error) {
	s := strings.TrimPrefix(string(data), utf8BOM)
	return strings.ToValidUTF8(s, "\ufffd"), nil
}
