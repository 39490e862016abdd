// Package jsonx decodes structured payloads out of model text that may carry
// markdown fences or prose around the JSON.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

// CleanJson removes a surrounding ```json fence.
func CleanJson(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// Extract returns the outermost JSON object or array found in text. Whichever
// opening delimiter appears first wins.
func Extract(text string) (string, bool) {
	clean := CleanJson(text)

	objStart := strings.Index(clean, "{")
	arrStart := strings.Index(clean, "[")

	var start, end int
	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		start, end = objStart, strings.LastIndex(clean, "}")
	case arrStart != -1:
		start, end = arrStart, strings.LastIndex(clean, "]")
	default:
		return "", false
	}
	if end < start {
		return "", false
	}
	return clean[start : end+1], true
}

// Decode extracts and unmarshals the payload into v. Any failure is reported
// as domain.ErrMalformedResponse.
func Decode(text string, v any) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}
	payload, ok := Extract(text)
	if !ok {
		return fmt.Errorf("%w: no JSON payload found", domain.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}
