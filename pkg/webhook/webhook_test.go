package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/logscrape/logscrape/pkg/output"
	"github.com/logscrape/logscrape/pkg/scraper"
)

func testReport() *output.Report {
	entries := []scraper.Entry{
		{
			Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			Level:     "ERROR",
			Content:   "Request failed",
			Traceback: []string{"ValueError: boom"},
		},
	}
	return output.NewReport(entries, []string{"app.log"}, time.Millisecond)
}

func TestClient_Send(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{
		URL:   server.URL,
		Token: "tok123",
	})

	if !resp.Success() {
		t.Fatalf("Send() failed: %v (status %d)", resp.Error, resp.StatusCode)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}

	var decoded output.Report
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("payload is not a JSON report: %v", err)
	}
	if decoded.Summary.Entries != 1 {
		t.Errorf("payload Entries = %d, want 1", decoded.Summary.Entries)
	}
}

func TestClient_SendNoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("Authorization header set without token")
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{URL: server.URL})

	if !resp.Success() {
		t.Fatalf("Send() failed: %v", resp.Error)
	}
}

func TestClient_SendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{URL: server.URL})

	if resp.Success() {
		t.Fatal("Send() succeeded against a 500 endpoint")
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if resp.Error == nil {
		t.Error("Error not set for non-2xx response")
	}
}

func TestClient_SendTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{
		URL:     server.URL,
		Timeout: 20 * time.Millisecond,
	})

	if resp.Success() {
		t.Fatal("Send() succeeded despite timeout")
	}
	if resp.Error == nil {
		t.Error("Error not set on timeout")
	}
}

func TestClient_SendUnreachable(t *testing.T) {
	client := NewClient()
	resp := client.Send(context.Background(), testReport(), SendOptions{
		URL:     "http://127.0.0.1:0/never",
		Timeout: 100 * time.Millisecond,
	})

	if resp.Success() {
		t.Fatal("Send() succeeded against unreachable endpoint")
	}
}
