package scanner

import (
	"context"
	"time"

	"lexvault/internal/domain/service"
	"lexvault/pkg/logger"
)

// Policy values for scanner-unavailable behavior.
const (
	PolicyFailOpen   = "fail_open"
	PolicyFailClosed = "fail_closed"
)

// Chain runs the primary scanner and, only on transport failure or timeout,
// the secondary. A definitive verdict from either backend — clean or
// infected — is returned as-is and never consults the other backend.
//
// When no backend is reachable, behavior follows the configured policy:
// fail_open returns a clean result with Backend set to "none" so the status
// is recorded distinctly for audit; fail_closed returns the error.
type Chain struct {
	primary   service.VirusScanner
	secondary service.VirusScanner
	timeout   time.Duration
	policy    string
}

func NewChain(primary, secondary service.VirusScanner, timeout time.Duration, policy string) *Chain {
	if policy != PolicyFailClosed {
		policy = PolicyFailOpen
	}
	return &Chain{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		policy:    policy,
	}
}

var _ service.VirusScanner = (*Chain)(nil)

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Scan(ctx context.Context, data []byte, filename string) (*service.ScanResult, error) {
	result, err := c.scanWithTimeout(ctx, c.primary, data, filename)
	if err == nil {
		return result, nil
	}
	logger.Warn("Primary scanner %s unavailable: %v", c.primary.Name(), err)

	if c.secondary != nil {
		result, secErr := c.scanWithTimeout(ctx, c.secondary, data, filename)
		if secErr == nil {
			return result, nil
		}
		logger.Warn("Secondary scanner %s unavailable: %v", c.secondary.Name(), secErr)
	}

	if c.policy == PolicyFailClosed {
		return nil, err
	}

	// Fail open: the file is treated as clean but the scan status is
	// recorded as "none" rather than blocking the upload.
	logger.Warn("All scanners unavailable for %s, proceeding fail-open", filename)
	return &service.ScanResult{
		Clean:     true,
		ScannedAt: time.Now().UTC(),
		Backend:   service.ScanBackendNone,
	}, nil
}

func (c *Chain) scanWithTimeout(ctx context.Context, s service.VirusScanner, data []byte, filename string) (*service.ScanResult, error) {
	scanCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return s.Scan(scanCtx, data, filename)
}
