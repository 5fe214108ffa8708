package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"leasehold/pkg/domain"
)

// HTTPClient talks JSON to a remote naming registry.
//
// Endpoints:
//
//	GET  {base}/nodes/{node}/owner            -> {"owner": "..."} (empty when unclaimed)
//	POST {base}/nodes/{parent}/labels         <- {"label_hash": "...", "owner": "..."}
//	PUT  {base}/nodes/{node}/owner            <- {"owner": "..."}
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient constructs a registry client for the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type ownerPayload struct {
	Owner string `json:"owner"`
}

type bindPayload struct {
	LabelHash string `json:"label_hash"`
	Owner     string `json:"owner"`
}

func (c *HTTPClient) OwnerOf(ctx context.Context, node domain.NameID) (domain.Identity, error) {
	url := fmt.Sprintf("%s/nodes/%s/owner", c.baseURL, node.Hex())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Nobody, fmt.Errorf("build owner request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Nobody, fmt.Errorf("query owner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Nobody, nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Nobody, fmt.Errorf("query owner: registry returned %d", resp.StatusCode)
	}

	var payload ownerPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Nobody, fmt.Errorf("decode owner response: %w", err)
	}
	return domain.Identity(payload.Owner), nil
}

func (c *HTTPClient) BindLabel(ctx context.Context, parent domain.NameID, labelHash domain.LabelHash, owner domain.Identity) error {
	url := fmt.Sprintf("%s/nodes/%s/labels", c.baseURL, parent.Hex())
	return c.post(ctx, http.MethodPost, url, bindPayload{LabelHash: labelHash.Hex(), Owner: owner.String()})
}

func (c *HTTPClient) SetNamespaceOwner(ctx context.Context, node domain.NameID, owner domain.Identity) error {
	url := fmt.Sprintf("%s/nodes/%s/owner", c.baseURL, node.Hex())
	return c.post(ctx, http.MethodPut, url, ownerPayload{Owner: owner.String()})
}

func (c *HTTPClient) post(ctx context.Context, method, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode registry request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("registry rejected %s %s with %d", method, url, resp.StatusCode)
	}
	return nil
}
