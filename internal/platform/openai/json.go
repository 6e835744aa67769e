package openai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a surrounding markdown fence (``` or ```json)
// from a model reply.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "```")
	if start == -1 {
		return s
	}
	body := s[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl != -1 {
		// drop the language tag line.
		if tag := strings.TrimSpace(body[:nl]); tag == "" || !strings.ContainsAny(tag, "{[\"") {
			body = body[nl+1:]
		}
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// DecodeJSON strips fences and unmarshals the reply into v.
func DecodeJSON(text string, v any) error {
	clean := StripCodeFences(text)
	if clean == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}
