package stream

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NetworkErrorText replaces any partial content when the transport fails
// mid-read. The partial text is discarded, not kept.
const NetworkErrorText = "A network error occurred, please try again."

// ErrorEnvelope is the JSON object a source writes into the byte stream in
// place of further text. Streaming responses commit their status and headers
// before the upstream outcome is known, so failures discovered mid-stream
// can only travel in-band.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// EncodeError serializes an in-band error envelope.
func EncodeError(message string) []byte {
	data, err := json.Marshal(ErrorEnvelope{Error: message})
	if err != nil {
		// Marshal of a flat string struct cannot fail; keep the stream
		// well-formed anyway.
		return []byte(`{"error":"streaming failed"}`)
	}
	return data
}

// DetectError reports whether the accumulated buffer is an in-band error
// envelope, returning the error message when it is.
//
// The buffer qualifies only when, trimmed of surrounding whitespace, it is a
// complete JSON object carrying an "error" string field. A parse is attempted
// only while the trimmed buffer starts with '{', which bounds the cost of
// repeated attempts and keeps ordinary prose from ever being parsed at all.
// An incomplete envelope is "not yet decidable": callers keep displaying the
// raw buffer as provisional content until a later chunk completes it.
//
// Known limitation: any JSON object with an "error" key qualifies, including
// one the model innocently produced as literal answer text.
func DetectError(buf string) (string, bool) {
	trimmed := strings.TrimSpace(buf)
	if !strings.HasPrefix(trimmed, "{") {
		return "", false
	}

	var env struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return "", false
	}
	if env.Error == nil {
		return "", false
	}
	return *env.Error, true
}

// FormatProviderError renders a detected in-band error the way the
// transcript displays it.
func FormatProviderError(provider, message string) string {
	if provider == "" {
		return fmt.Sprintf("Error: %s", message)
	}
	return fmt.Sprintf("Error from %s: %s", provider, message)
}

// ResolveHTTPError derives error content from a non-success response that
// failed before any stream bytes were committed. Preference order: the JSON
// "error" field of the body, else the plain body text, else the status text.
func ResolveHTTPError(status string, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text != "" {
		var env struct {
			Error *string `json:"error"`
		}
		if err := json.Unmarshal([]byte(text), &env); err == nil && env.Error != nil && *env.Error != "" {
			return *env.Error
		}
		return text
	}
	return status
}
