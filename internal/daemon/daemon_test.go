package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"clipcast/internal/captions"
	"clipcast/internal/config"
	"clipcast/internal/objectstore"
	"clipcast/internal/publish"
	"clipcast/internal/queue"
	"clipcast/internal/render"
	"clipcast/internal/testsupport"
	"clipcast/internal/worker"
)

type okRenderer struct{}

func (okRenderer) Render(_ context.Context, req render.Request) (render.Result, error) {
	if err := os.WriteFile(req.OutputPath, []byte("mp4"), 0o644); err != nil {
		return render.Result{}, err
	}
	return render.Result{OutputPath: req.OutputPath, CaptionsBurned: req.Graph.IncludeCaptions}, nil
}

func newTestDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*Daemon, *config.Config, *objectstore.LocalFS) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store, objects := testsupport.NewQueueStore(t, cfg)

	segmenter := captions.NewSegmenter(nil, nil)
	publisher := publish.New(objects, nil, cfg.Render.Layout, nil)
	w := worker.New(store, objects, segmenter, okRenderer{}, publisher, cfg, nil)

	d, err := New(cfg, store, nil, w, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, cfg, objects
}

func startDaemon(t *testing.T, d *Daemon) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
		cancel()
	})
	return "http://" + d.APIAddress()
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	d, cfg, _ := newTestDaemon(t)
	startDaemon(t, d)

	store, objects := testsupport.NewQueueStore(t, cfg)
	segmenter := captions.NewSegmenter(nil, nil)
	publisher := publish.New(objects, nil, cfg.Render.Layout, nil)
	w := worker.New(store, objects, segmenter, okRenderer{}, publisher, cfg, nil)
	second, err := New(cfg, store, nil, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance must fail to acquire the lock")
	}
}

func TestAPIEnqueueAndFetch(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	base := startDaemon(t, d)

	body, _ := json.Marshal(enqueuePayload{SourceKey: "audio/1700000000-test.mp3", Title: "launch"})
	resp, err := http.Post(base+"/api/jobs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/jobs: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var record queue.JobRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatal(err)
	}
	if record.ID == "" || record.Status != queue.StatusQueued {
		t.Fatalf("record = %+v", record)
	}

	getResp, err := http.Get(base + "/api/jobs/" + record.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("GET job status = %d", getResp.StatusCode)
	}

	listResp, err := http.Get(base + "/api/jobs")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var list jobListResponse
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Jobs) != 1 || list.Jobs[0].ID != record.ID {
		t.Fatalf("list = %+v", list.Jobs)
	}
}

func TestAPIEnqueueValidation(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	base := startDaemon(t, d)

	resp, err := http.Post(base+"/api/jobs", "application/json", bytes.NewReader([]byte(`{"title":"no source"}`)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAPIProcessJob(t *testing.T) {
	d, _, objects := newTestDaemon(t)
	base := startDaemon(t, d)

	ctx := context.Background()
	if _, err := objects.Put(ctx, "audio/1700000000-test.mp3", bytes.NewReader([]byte("audio"))); err != nil {
		t.Fatal(err)
	}
	record, err := d.Enqueue(ctx, queue.EnqueueRequest{SourceKey: "audio/1700000000-test.mp3"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(base+"/api/jobs/"+record.ID+"/process", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var processed queue.JobRecord
	if err := json.NewDecoder(resp.Body).Decode(&processed); err != nil {
		t.Fatal(err)
	}
	if processed.Status != queue.StatusDone {
		t.Fatalf("status = %s, want done (error: %s)", processed.Status, processed.Error)
	}
	if processed.Output != "shorts/test-9x16.mp4" {
		t.Fatalf("output = %q", processed.Output)
	}
}

func TestAPIUnknownJob(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	base := startDaemon(t, d)

	resp, err := http.Get(base + "/api/jobs/no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAPIBearerAuth(t *testing.T) {
	d, _, _ := newTestDaemon(t, testsupport.WithAPIToken("sekrit"))
	base := startDaemon(t, d)

	resp, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, base+"/api/status", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	authed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer authed.Body.Close()
	if authed.StatusCode != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", authed.StatusCode)
	}
	var status Status
	if err := json.NewDecoder(authed.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status.Running {
		t.Fatal("daemon should report running")
	}
}

func TestStatusCountsJobs(t *testing.T) {
	d, _, _ := newTestDaemon(t)
	startDaemon(t, d)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := d.Enqueue(ctx, queue.EnqueueRequest{SourceKey: fmt.Sprintf("audio/%d-x.mp3", i)}); err != nil {
			t.Fatal(err)
		}
	}
	status, err := d.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if status.Jobs["queued"] != 3 {
		t.Fatalf("queued = %d, want 3", status.Jobs["queued"])
	}
}
