package aicontent

import (
	"errors"
	"fmt"
	"strings"

	"techno-mart-ai/internal/gemini"
)

var (
	// ErrServiceUnavailable is returned by image generation when the client
	// runs without a provider credential.
	ErrServiceUnavailable = errors.New("AI service is not initialized for image generation.")

	// ErrEmptyResponse marks a provider call that completed without any image
	// payload.
	ErrEmptyResponse = errors.New("No image generated or image data is missing from the response.")
)

// ImageGenerationError is the final failure of a dream gadget image request,
// after the retry budget was spent or a non-retriable error occurred.
type ImageGenerationError struct {
	Attempts int
	Err      error
}

func (e *ImageGenerationError) Error() string {
	return fmt.Sprintf("Failed to generate dream gadget image after %d attempt(s). Last error: %s", e.Attempts, errorMessage(e.Err))
}

func (e *ImageGenerationError) Unwrap() error {
	return e.Err
}

// Provider error texts that indicate a transient server side failure.
var retriableSignatures = []string{
	"500 UNKNOWN",
	"error code: 6",
}

// IsRetriable reports whether a failed image attempt may be retried.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	if gemini.IsTransient(err) {
		return true
	}

	message := err.Error()
	for _, signature := range retriableSignatures {
		if strings.Contains(message, signature) {
			return true
		}
	}
	return false
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
