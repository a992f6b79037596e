// Package recommender is the client for the external ML recommendation
// API. The service is consumed as a black box: jobs are submitted,
// polled by id, and the completed result payload is validated into
// typed structs at this boundary.
package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Remote job statuses as reported by the status endpoint.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Client is the surface the lifecycle manager and task tracker consume.
type Client interface {
	// SubmitPrediction sends a byte's request text for recommendation
	// generation against one teamspace and returns the job id.
	SubmitPrediction(ctx context.Context, text, teamspaceID string) (string, error)
	// SubmitChunking sends a set of document references for parsing and
	// chunking and returns the job id.
	SubmitChunking(ctx context.Context, docs []DocumentRef) (string, error)
	// JobStatus returns the last-known status and, when completed, the
	// result payload for a job.
	JobStatus(ctx context.Context, jobID string) (*JobResult, error)
}

// DocumentRef identifies one document in a chunking submission.
type DocumentRef struct {
	DocumentID string `json:"document_id"`
	RawURL     string `json:"raw_url"`
}

// ResultEntry is one recommendation in a completed prediction job.
// The wire payload is loosely shaped; unknown fields are dropped here
// and required ones validated by the caller.
type ResultEntry struct {
	GeneratedText  string  `json:"generated_text"`
	PreviousString string  `json:"previous_string"`
	RelevanceScore float64 `json:"relevance_score"`
	Heading1       string  `json:"section_main_heading_1"`
	Heading2       string  `json:"section_main_heading_2"`
	Heading3       string  `json:"section_main_heading_3"`
	Heading4       string  `json:"section_main_heading_4"`
	UpdationType   string  `json:"updation_type"`
	DocumentID     string  `json:"document_id"`
}

// ChunkPaths is the result payload of a completed chunking job.
type ChunkPaths struct {
	ParsedDocPath string `json:"parsed_doc_path"`
	VectorDBPath  string `json:"vector_db_path"`
}

// JobResult is the response of the job-status endpoint.
type JobResult struct {
	Status  string        `json:"status"`
	Entries []ResultEntry `json:"result,omitempty"`
	Paths   *ChunkPaths   `json:"paths,omitempty"`
}

// HTTPClient implements Client against the HTTP API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient constructs a client for the given base URL and API key.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type submitResponse struct {
	TaskID string `json:"task_id"`
}

// SubmitPrediction submits a byte's text and returns the job id.
func (c *HTTPClient) SubmitPrediction(ctx context.Context, text, teamspaceID string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("prediction text required")
	}

	reqBody := map[string]string{
		"text":         text,
		"teamspace_id": teamspaceID,
	}

	var resp submitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/predict", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("predict response missing task id")
	}

	return resp.TaskID, nil
}

// SubmitChunking submits documents for parsing/chunking and returns
// the job id.
func (c *HTTPClient) SubmitChunking(ctx context.Context, docs []DocumentRef) (string, error) {
	if len(docs) == 0 {
		return "", fmt.Errorf("chunking requires at least one document")
	}

	reqBody := map[string]interface{}{
		"documents": docs,
	}

	var resp submitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/chunk", reqBody, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("chunk response missing task id")
	}

	return resp.TaskID, nil
}

// JobStatus queries the job-status endpoint.
func (c *HTTPClient) JobStatus(ctx context.Context, jobID string) (*JobResult, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("job id required")
	}

	var result JobResult
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/task-status/"+jobID, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recommender request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("recommender api error: %s", errResp.Error)
		}
		return fmt.Errorf("recommender api error: %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
