package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexvault/internal/domain/service"
)

func TestClamAVScanClean(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scan", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "brief.pdf", header.Filename)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Status": "OK", "Description": ""}`))
	}))
	defer server.Close()
	t.Setenv("CLAMAV_ENDPOINT", server.URL)

	result, err := NewClamAVClient().Scan(context.Background(), []byte("%PDF-1.4"), "brief.pdf")
	require.NoError(t, err)
	assert.True(t, result.Clean)
	assert.Empty(t, result.Threats)
	assert.Equal(t, service.ScanBackendClamAV, result.Backend)
}

func TestClamAVScanInfected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"Status": "FOUND", "Description": "Eicar-Test-Signature"}`))
	}))
	defer server.Close()
	t.Setenv("CLAMAV_ENDPOINT", server.URL)

	result, err := NewClamAVClient().Scan(context.Background(), []byte("X5O!P%@AP"), "eicar.txt")
	require.NoError(t, err)
	assert.False(t, result.Clean)
	assert.Equal(t, []string{"Eicar-Test-Signature"}, result.Threats)
}

func TestClamAVScanBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	t.Setenv("CLAMAV_ENDPOINT", server.URL)

	_, err := NewClamAVClient().Scan(context.Background(), []byte("data"), "doc.txt")
	require.Error(t, err, "a 5xx is a backend failure, not a verdict")
}

func TestClamAVScanUnconfigured(t *testing.T) {
	t.Setenv("CLAMAV_ENDPOINT", "")

	_, err := NewClamAVClient().Scan(context.Background(), []byte("data"), "doc.txt")
	require.Error(t, err)
}
