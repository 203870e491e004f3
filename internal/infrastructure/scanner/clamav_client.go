package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"lexvault/internal/domain/service"
	"lexvault/pkg/config"
)

// ClamAVClient talks to a ClamAV REST endpoint (clamav-rest style): the file
// goes up as a multipart form, the verdict comes back as JSON.
type ClamAVClient struct {
	httpClient *http.Client
}

func NewClamAVClient() *ClamAVClient {
	return &ClamAVClient{
		httpClient: &http.Client{},
	}
}

var _ service.VirusScanner = (*ClamAVClient)(nil)

func (c *ClamAVClient) Name() string {
	return service.ScanBackendClamAV
}

type clamAVVerdict struct {
	Status      string `json:"Status"`
	Description string `json:"Description"`
}

func (c *ClamAVClient) Scan(ctx context.Context, data []byte, filename string) (*service.ScanResult, error) {
	endpoint := config.ClamAVEndpoint()
	if endpoint == "" {
		return nil, fmt.Errorf("clamav endpoint not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(endpoint, "/")+"/scan", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clamav request failed: %w", err)
	}
	defer resp.Body.Close()

	// clamav-rest returns 200 for clean and 406 for infected; anything
	// else is a backend failure, not a verdict.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotAcceptable {
		return nil, fmt.Errorf("clamav returned unexpected status %d", resp.StatusCode)
	}

	var verdict clamAVVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, fmt.Errorf("failed to decode clamav response: %w", err)
	}

	result := &service.ScanResult{
		ScannedAt: time.Now().UTC(),
		Backend:   service.ScanBackendClamAV,
	}

	switch verdict.Status {
	case "OK":
		result.Clean = true
	case "FOUND":
		result.Clean = false
		if verdict.Description != "" {
			result.Threats = []string{verdict.Description}
		}
	default:
		return nil, fmt.Errorf("clamav returned unknown status %q", verdict.Status)
	}

	return result, nil
}
