package geminiservice

import (
	"encoding/json"
	"strings"

	"fitlab/internal/faults"
)

// StripCodeFence removes a leading ```json or ``` marker and a trailing ```
// from a completion, if present. Gemini wraps JSON replies in markdown fences
// even when told not to, so every reply goes through here before decoding.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}

	return strings.TrimSpace(text)
}

// ExtractJSON strips any code fence from raw and decodes the remainder into v.
// A decode failure is returned as a ParseError carrying the decoder's message,
// which is what routes the caller to its fallback generator.
func ExtractJSON(raw string, v interface{}) error {
	cleaned := StripCodeFence(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &faults.ParseError{Err: err}
	}
	return nil
}
