package gemini

import (
	"errors"
	"net/http"

	"google.golang.org/genai"
)

// IsTransient reports whether err carries a structured Gen AI API status that
// marks the failure as temporary on the server side.
func IsTransient(err error) bool {
	code, status, ok := statusOf(err)
	if !ok {
		return false
	}

	switch {
	case code == http.StatusInternalServerError && status == "UNKNOWN":
		return true
	case code == http.StatusServiceUnavailable, status == "UNAVAILABLE":
		return true
	}
	return false
}

func statusOf(err error) (int, string, bool) {
	if err == nil {
		return 0, "", false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Status, true
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Status, true
	}

	return 0, "", false
}
