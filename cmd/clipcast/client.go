package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clipcast/internal/daemon"
	"clipcast/internal/queue"
)

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

type enqueueRequest struct {
	SourceKey          string `json:"sourceKey"`
	Title              string `json:"title,omitempty"`
	MaxDurationSeconds int    `json:"maxDurationSeconds,omitempty"`
}

type jobList struct {
	Jobs []*queue.JobRecord `json:"jobs"`
}

type apiError struct {
	Message string `json:"error"`
}

func newAPIClient(address, token string) *apiClient {
	base := strings.TrimSpace(address)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &apiClient{
		baseURL: strings.TrimRight(base, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) enqueue(ctx context.Context, req enqueueRequest) (*queue.JobRecord, error) {
	var record queue.JobRecord
	if err := c.do(ctx, http.MethodPost, "/api/jobs", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *apiClient) listJobs(ctx context.Context) ([]*queue.JobRecord, error) {
	var list jobList
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &list); err != nil {
		return nil, err
	}
	return list.Jobs, nil
}

func (c *apiClient) getJob(ctx context.Context, id string) (*queue.JobRecord, error) {
	var record queue.JobRecord
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+id, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *apiClient) processJob(ctx context.Context, id string) (*queue.JobRecord, error) {
	var record queue.JobRecord
	if err := c.do(ctx, http.MethodPost, "/api/jobs/"+id+"/process", nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *apiClient) status(ctx context.Context) (*daemon.Status, error) {
	var status daemon.Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
