package server_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"

	"github.com/optimode/mailprobe"
	"github.com/optimode/mailprobe/server"
)

// newTestServer wires a verifier whose DNS always answers "no MX", so no
// SMTP dial ever happens and results are deterministic.
func newTestServer() *httptest.Server {
	v := mailprobe.New(mailprobe.Options{
		LookupMX: func(_ context.Context, _ string) ([]*net.MX, error) {
			return nil, nil
		},
	})
	return httptest.NewServer(server.New(v, nil).Handler())
}

func decodeResult(t *testing.T, resp *http.Response) mailprobe.VerificationResult {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var result mailprobe.VerificationResult
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestHandleVerify_Get(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/verify?email=user@no-mx-domain.example")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, "user@no-mx-domain.example", result.Email)
	assert.Equal(t, mailprobe.StatusInvalid, result.Status)
	assert.True(t, result.SyntaxValid)
	assert.False(t, result.MXFound)
}

func TestHandleVerify_Post(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	body := strings.NewReader(`{"email": "user@no-mx-domain.example"}`)
	resp, err := http.Post(ts.URL+"/verify", "application/json", body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, "user@no-mx-domain.example", result.Email)
}

func TestHandleVerify_SyntaxInvalid(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/verify?email=not-an-email")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, mailprobe.StatusInvalid, result.Status)
	assert.Zero(t, result.Score)
}

func TestHandleVerify_MissingEmail(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/verify")
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload["error"], "email parameter required")
}

func TestHandleVerify_MalformedBody(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/verify", "application/json", strings.NewReader("{broken"))
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
