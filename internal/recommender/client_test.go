package recommender

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestSubmitPrediction verifies the request shape and job id handling
func TestSubmitPrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("X-API-Key"))
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["text"] != "fix paragraph 2" {
			t.Errorf("expected request text, got %q", body["text"])
		}
		if body["teamspace_id"] != "ts-1" {
			t.Errorf("expected teamspace id, got %q", body["teamspace_id"])
		}

		json.NewEncoder(w).Encode(map[string]string{"task_id": "job-1"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "test-key")
	jobID, err := client.SubmitPrediction(context.Background(), "fix paragraph 2", "ts-1")
	if err != nil {
		t.Fatalf("SubmitPrediction failed: %v", err)
	}
	if jobID != "job-1" {
		t.Errorf("expected job-1, got %q", jobID)
	}
}

// TestSubmitPrediction_EmptyText verifies empty text is rejected locally
func TestSubmitPrediction_EmptyText(t *testing.T) {
	client := NewHTTPClient("http://unused", "key")
	if _, err := client.SubmitPrediction(context.Background(), "   ", "ts-1"); err == nil {
		t.Fatal("expected error for empty text")
	}
}

// TestJobStatus_Completed verifies a completed job's payload decodes
// into typed entries
func TestJobStatus_Completed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/task-status/job-9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(JobResult{
			Status: StatusCompleted,
			Entries: []ResultEntry{
				{
					GeneratedText:  "New intro text.",
					RelevanceScore: 0.92,
					Heading1:       "Guide",
					UpdationType:   "replace",
					DocumentID:     "doc-1",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "key")
	result, err := client.JobStatus(context.Background(), "job-9")
	if err != nil {
		t.Fatalf("JobStatus failed: %v", err)
	}
	if result.Status != StatusCompleted {
		t.Errorf("expected COMPLETED, got %q", result.Status)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].DocumentID != "doc-1" {
		t.Errorf("expected doc-1, got %q", result.Entries[0].DocumentID)
	}
}

// TestJobStatus_APIError verifies error bodies surface in the error
func TestJobStatus_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "model unavailable"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "key")
	if _, err := client.JobStatus(context.Background(), "job-1"); err == nil {
		t.Fatal("expected error from 502 response")
	}
}
