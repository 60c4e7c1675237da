// Package relay delivers aggregated project views to the external relay
// endpoint.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/ports"
)

// Client POSTs project views to <base>/api/v1/state/<device_id>. Delivery
// is best-effort with a hard timeout; the caller treats errors as
// log-and-drop.
type Client struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client
	key        *[32]byte
}

// Compile-time interface verification
var _ ports.RelayPublisher = (*Client)(nil)

// NewClient creates a relay client. key may be nil, in which case the
// payload is sent unencrypted (confidentiality is a deployment concern).
func NewClient(baseURL, deviceID string, key *[32]byte, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		deviceID:   deviceID,
		httpClient: &http.Client{Timeout: timeout},
		key:        key,
	}
}

// Publish delivers one aggregated view, keyed by project path
func (c *Client) Publish(ctx context.Context, view map[string]domain.ProjectSummary) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal view: %w", err)
	}

	body := payload
	if c.key != nil {
		env, err := Seal(payload, c.key)
		if err != nil {
			return err
		}
		if body, err = env.Marshal(); err != nil {
			return fmt.Errorf("failed to marshal envelope: %w", err)
		}
	}

	url := fmt.Sprintf("%s/api/v1/state/%s", c.baseURL, c.deviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay rejected publish: %s", resp.Status)
	}

	logging.Logger.Debug("Published state to relay",
		"projects", len(view), "status", resp.StatusCode)
	return nil
}
