package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewClient verifies the client is wrapped with the logging transport and
// carries the requested timeout.
func TestNewClient(t *testing.T) {
	client := NewClient(5 * time.Second)

	require.NotNil(t, client)
	assert.Equal(t, 5*time.Second, client.Timeout)
	_, ok := client.Transport.(*LoggingRoundTripper)
	assert.True(t, ok)
}

// TestLoggingRoundTripper_Success verifies requests pass through to the
// underlying transport.
func TestLoggingRoundTripper_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(2 * time.Second)
	resp, err := client.Get(srv.URL)

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// TestLoggingRoundTripper_Failure verifies transport errors are propagated.
func TestLoggingRoundTripper_Failure(t *testing.T) {
	client := NewClient(500 * time.Millisecond)

	_, err := client.Get("http://127.0.0.1:1")
	assert.Error(t, err)
}
