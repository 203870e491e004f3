package service

import (
	"context"
	"time"
)

// Scan backends reported in ScanResult.Backend.
const (
	ScanBackendClamAV     = "clamav"
	ScanBackendVirusTotal = "virustotal"
	// ScanBackendNone means no scanner produced a verdict and the upload
	// proceeded under the fail-open policy.
	ScanBackendNone = "none"
)

// ScanResult is produced once per upload attempt and consumed immediately
// to gate the storage write. It is not persisted as its own entity; the
// outcome lands on the document record and in the audit detail.
type ScanResult struct {
	Clean     bool      `json:"clean"`
	Threats   []string  `json:"threats,omitempty"`
	ScannedAt time.Time `json:"scanned_at"`
	Backend   string    `json:"backend"`
}

// VirusScanner submits file bytes to a scanning backend. A returned error
// means the backend was unreachable or timed out, not that the file is
// infected; an infected verdict comes back as a ScanResult with
// Clean == false.
type VirusScanner interface {
	Scan(ctx context.Context, data []byte, filename string) (*ScanResult, error)
	Name() string
}
