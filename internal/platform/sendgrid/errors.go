package sendgrid

import (
	"encoding/json"
	"fmt"
	"strings"
)

type errorItem struct {
	Message string `json:"message"`
	Field   any    `json:"field,omitempty"`
}

// HTTPError is a non-2xx reply. It satisfies httpx.HTTPStatusCoder so the
// retry loop can classify it.
type HTTPError struct {
	StatusCode int
	Body       string
	Errors     []errorItem
}

func newHTTPError(status int, raw []byte) *HTTPError {
	he := &HTTPError{StatusCode: status, Body: string(raw)}
	var parsed struct {
		Errors []errorItem `json:"errors"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		he.Errors = parsed.Errors
	}
	return he
}

func (e *HTTPError) Error() string {
	for _, item := range e.Errors {
		if m := strings.TrimSpace(item.Message); m != "" {
			return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, m)
		}
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = "<empty body>"
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }
