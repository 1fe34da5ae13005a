package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/shared/config"
)

// Client talks to the chat-bot provisioning API. With no endpoint or API key
// configured the feature is disabled and Enabled reports false; callers skip
// the sync in that case.
type Client struct {
	cfg        *config.AgentProvisionerConfig
	httpClient *http.Client
}

func NewClient(cfg *config.AgentProvisionerConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return c.cfg.Enabled()
}

type createAgentRequest struct {
	Name      string `json:"name"`
	LeadLimit int    `json:"lead_limit"`
}

type createAgentResponse struct {
	ID string `json:"id"`
}

type updateAgentRequest struct {
	LeadLimit int `json:"lead_limit"`
}

func (c *Client) CreateAgent(ctx context.Context, name string, leadLimit int) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/agents", createAgentRequest{Name: name, LeadLimit: leadLimit})
	if err != nil {
		return "", err
	}

	var resp createAgentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("malformed provisioning response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("provisioning response missing agent id")
	}
	return resp.ID, nil
}

func (c *Client) DeleteAgent(ctx context.Context, externalID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/agents/"+externalID, nil)
	return err
}

func (c *Client) UpdateAgentLeadLimit(ctx context.Context, externalID string, leadLimit int) error {
	_, err := c.do(ctx, http.MethodPatch, "/agents/"+externalID, updateAgentRequest{LeadLimit: leadLimit})
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-API-Key", c.cfg.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provisioning API call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read provisioning response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, billing.ErrAgentNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("provisioning API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
