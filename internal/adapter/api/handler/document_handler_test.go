package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requests that never reach the use case: authentication and input shape
// are rejected at the handler.

func TestUploadRequiresAuthentication(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewDocumentHandler(nil)
	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestUploadRequiresFile(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "lawyer-1")

	h := NewDocumentHandler(nil)
	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRequiresDocumentID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/documents/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "lawyer-1")

	h := NewDocumentHandler(nil)
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRequiresAuthentication(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewDocumentHandler(nil)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
