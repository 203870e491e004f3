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
	"lexvault/pkg/logger"
)

// VirusTotalClient is the secondary, public-reputation backend. Analysis is
// asynchronous: submit the file, then poll the analysis ID until it reaches
// a terminal status or the attempt ceiling is hit.
type VirusTotalClient struct {
	httpClient   *http.Client
	pollAttempts int
	pollInterval time.Duration
}

func NewVirusTotalClient(pollAttempts int) *VirusTotalClient {
	if pollAttempts <= 0 {
		pollAttempts = 10
	}
	return &VirusTotalClient{
		httpClient:   &http.Client{},
		pollAttempts: pollAttempts,
		pollInterval: 2 * time.Second,
	}
}

var _ service.VirusScanner = (*VirusTotalClient)(nil)

func (v *VirusTotalClient) Name() string {
	return service.ScanBackendVirusTotal
}

type vtSubmitResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type vtAnalysisResponse struct {
	Data struct {
		Attributes struct {
			Status string `json:"status"`
			Stats  struct {
				Malicious  int `json:"malicious"`
				Suspicious int `json:"suspicious"`
			} `json:"stats"`
			Results map[string]struct {
				Category string `json:"category"`
				Result   string `json:"result"`
			} `json:"results"`
		} `json:"attributes"`
	} `json:"data"`
}

func (v *VirusTotalClient) Scan(ctx context.Context, data []byte, filename string) (*service.ScanResult, error) {
	apiKey := config.VirusTotalAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("virustotal api key not configured")
	}
	endpoint := strings.TrimRight(config.VirusTotalEndpoint(), "/")

	analysisID, err := v.submit(ctx, endpoint, apiKey, data, filename)
	if err != nil {
		return nil, err
	}

	return v.poll(ctx, endpoint, apiKey, analysisID)
}

func (v *VirusTotalClient) submit(ctx context.Context, endpoint, apiKey string, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/files", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-apikey", apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("virustotal submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("virustotal submit returned status %d", resp.StatusCode)
	}

	var submit vtSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submit); err != nil {
		return "", fmt.Errorf("failed to decode virustotal submit response: %w", err)
	}
	if submit.Data.ID == "" {
		return "", fmt.Errorf("virustotal submit response missing analysis id")
	}

	return submit.Data.ID, nil
}

func (v *VirusTotalClient) poll(ctx context.Context, endpoint, apiKey, analysisID string) (*service.ScanResult, error) {
	for attempt := 0; attempt < v.pollAttempts; attempt++ {
		analysis, err := v.fetchAnalysis(ctx, endpoint, apiKey, analysisID)
		if err != nil {
			return nil, err
		}

		if analysis.Data.Attributes.Status == "completed" {
			attrs := analysis.Data.Attributes
			result := &service.ScanResult{
				Clean:     attrs.Stats.Malicious == 0 && attrs.Stats.Suspicious == 0,
				ScannedAt: time.Now().UTC(),
				Backend:   service.ScanBackendVirusTotal,
			}
			if !result.Clean {
				for engine, r := range attrs.Results {
					if r.Category == "malicious" || r.Category == "suspicious" {
						name := r.Result
						if name == "" {
							name = engine
						}
						result.Threats = append(result.Threats, name)
					}
				}
			}
			return result, nil
		}

		logger.Debug("VirusTotal analysis %s not ready (attempt %d/%d)", analysisID, attempt+1, v.pollAttempts)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(v.pollInterval):
		}
	}

	return nil, fmt.Errorf("virustotal analysis %s did not complete within %d attempts", analysisID, v.pollAttempts)
}

func (v *VirusTotalClient) fetchAnalysis(ctx context.Context, endpoint, apiKey, analysisID string) (*vtAnalysisResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/analyses/"+analysisID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-apikey", apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("virustotal poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("virustotal poll returned status %d", resp.StatusCode)
	}

	var analysis vtAnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to decode virustotal analysis: %w", err)
	}

	return &analysis, nil
}
