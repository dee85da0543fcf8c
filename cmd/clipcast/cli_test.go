package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clipcast/internal/queue"
)

func fakeDaemon(t *testing.T) *httptest.Server {
	t.Helper()
	record := queue.JobRecord{
		ID:                 "3f6c2a1e-0000-0000-0000-000000000000",
		SourceKey:          "audio/1700000000-test.mp3",
		Title:              "launch day",
		MaxDurationSeconds: 60,
		Status:             queue.StatusQueued,
		NextTryAt:          time.Now().UTC(),
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var payload enqueueRequest
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			created := record
			created.SourceKey = payload.SourceKey
			created.Title = payload.Title
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(created)
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(jobList{Jobs: []*queue.JobRecord{&record}})
		}
	})
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/process") {
			done := record
			done.Status = queue.StatusDone
			done.Output = "shorts/test-9x16.mp4"
			_ = json.NewEncoder(w).Encode(done)
			return
		}
		if strings.HasSuffix(r.URL.Path, record.ID) {
			_ = json.NewEncoder(w).Encode(record)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "job not found"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCommand(t *testing.T, server *httptest.Server, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--address", strings.TrimPrefix(server.URL, "http://")))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("clipcast %s: %v", strings.Join(args, " "), err)
	}
	return buf.String()
}

func TestEnqueueCommand(t *testing.T) {
	server := fakeDaemon(t)
	out := runCommand(t, server, "enqueue", "audio/1700000000-test.mp3", "--title", "launch day")
	if !strings.Contains(out, "Queued audio/1700000000-test.mp3") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "Job ID:") {
		t.Fatalf("output = %q", out)
	}
}

func TestQueueCommandRendersTable(t *testing.T) {
	server := fakeDaemon(t)
	out := runCommand(t, server, "queue")
	for _, want := range []string{"SOURCE", "audio/1700000000-test.mp3", "queued"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQueueCommandRejectsUnknownStatus(t *testing.T) {
	server := fakeDaemon(t)
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"queue", "--status", "bogus", "--address", strings.TrimPrefix(server.URL, "http://")})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestShowCommand(t *testing.T) {
	server := fakeDaemon(t)
	out := runCommand(t, server, "show", "3f6c2a1e-0000-0000-0000-000000000000")
	if !strings.Contains(out, "Source:   audio/1700000000-test.mp3") {
		t.Fatalf("output = %q", out)
	}
}

func TestProcessCommand(t *testing.T) {
	server := fakeDaemon(t)
	out := runCommand(t, server, "process", "3f6c2a1e-0000-0000-0000-000000000000")
	if !strings.Contains(out, "Done: shorts/test-9x16.mp4") {
		t.Fatalf("output = %q", out)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := t.TempDir() + "/config.toml"
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(buf.String(), "Wrote sample configuration") {
		t.Fatalf("output = %q", buf.String())
	}
}
