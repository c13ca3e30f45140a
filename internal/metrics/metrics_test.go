package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.ObserveOperation("description", OutcomeSuccess, 120*time.Millisecond)
	r.ObserveOperation("description", OutcomeSuccess, 80*time.Millisecond)
	r.ObserveOperation("image", OutcomeFailed, 3*time.Second)
	r.ObserveImageAttempt(AttemptRetry)
	r.ObserveImageAttempt(AttemptRetry)
	r.ObserveImageAttempt(AttemptFailed)

	assert.Equal(t, 2.0, r.OperationCount("description", OutcomeSuccess))
	assert.Equal(t, 1.0, r.OperationCount("image", OutcomeFailed))
	assert.Equal(t, 0.0, r.OperationCount("search", OutcomeSuccess))
	assert.Equal(t, 2.0, r.ImageAttemptCount(AttemptRetry))
	assert.Equal(t, 1.0, r.ImageAttemptCount(AttemptFailed))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	r.ObserveOperation("search", OutcomeDisabled, 0)
	r.ObserveImageAttempt(AttemptSuccess)

	assert.Zero(t, r.OperationCount("search", OutcomeDisabled))
	assert.Zero(t, r.ImageAttemptCount(AttemptSuccess))
}

func TestHandler(t *testing.T) {
	r := New()
	r.ObserveOperation("search", OutcomeSuccess, time.Second)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `technomart_ai_operations_total{operation="search",outcome="success"} 1`)
	assert.Contains(t, string(body), "technomart_ai_operation_duration_seconds_bucket")
}
