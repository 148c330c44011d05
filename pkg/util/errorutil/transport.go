package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// NetworkError reports that no response reached the caller.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError reports a non-2xx response from the backend.
type HTTPError struct {
	Op     string
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.Status, e.Message())
}

// Message extracts a human readable message from the response body when the
// backend sent one, falling back to the status text.
func (e *HTTPError) Message() string {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		switch v := payload.Error.(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if msg, ok := v["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(e.Body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	if text := http.StatusText(e.Status); text != "" {
		return strings.ToLower(text)
	}
	return "request failed"
}

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
