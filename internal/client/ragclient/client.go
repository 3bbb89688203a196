package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"doceasy-be/pkg/workspace"
)

// IRagClient talks to the external analysis backend.
type IRagClient interface {
	TableSearch(ctx context.Context, req *TableSearchRequest) (*TableSearchResponse, error)
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

type TableSearchRequest struct {
	ProjectID   string            `json:"project_id"`
	DocumentIDs []string          `json:"document_ids"`
	Prompts     map[string]string `json:"prompts"`
}

type TableSearchResponse struct {
	Columns []workspace.TableColumn `json:"columns"`
}

type ChatRequest struct {
	ProjectID   string   `json:"project_id"`
	DocumentIDs []string `json:"document_ids"`
	Question    string   `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type ragClient struct {
	baseURL string
	client  *http.Client
}

func NewRagClient(baseURL string, timeout time.Duration) IRagClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ragClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ragClient) TableSearch(ctx context.Context, req *TableSearchRequest) (*TableSearchResponse, error) {
	var res TableSearchResponse
	if err := c.post(ctx, "/api/v1/rag/table/search", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *ragClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	var res ChatResponse
	if err := c.post(ctx, "/api/v1/rag/chat", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *ragClient) post(ctx context.Context, path string, payload, out interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rag request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rag error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
