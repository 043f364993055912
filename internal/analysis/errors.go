package analysis

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxErrorBody caps how much of a failed response body is kept as the message.
const maxErrorBody = 512

// Error describes a failed call to the analysis backend. StatusCode is zero for
// transport failures that never produced a response.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("analysis %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("analysis %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("analysis %s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text safe to show next to the report status.
func (e *Error) UserMessage() string {
	if e.StatusCode != 0 && e.Message != "" {
		return e.Message
	}
	return "Could not reach the analysis service. Please try again."
}

// parseErrorBody extracts a message from a non-2xx body. The backend answers
// either {"error": "..."} or plain text.
func parseErrorBody(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
		for !utf8.ValidString(text) {
			text = text[:len(text)-1]
		}
	}
	if text == "" || strings.HasPrefix(text, "<") {
		return http.StatusText(status)
	}
	return text
}
