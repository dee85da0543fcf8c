package deps

import (
	"testing"

	"clipcast/internal/testsupport"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "Missing", Command: "definitely-not-a-real-binary-1234"},
		{Name: "Unconfigured", Command: "   "},
		{Name: "Shell", Command: "sh"},
	})
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Available || results[0].Detail == "" {
		t.Fatalf("missing binary not reported: %+v", results[0])
	}
	if results[1].Available || results[1].Detail != "command not configured" {
		t.Fatalf("unconfigured binary not reported: %+v", results[1])
	}
	if !results[2].Available {
		t.Fatalf("sh should resolve from PATH: %+v", results[2])
	}
}

func TestCheckSkipsWhisperWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcriber.Enabled = false
	results := Check(cfg)
	if len(results) != 1 || results[0].Name != "FFmpeg" {
		t.Fatalf("results = %+v", results)
	}

	cfg.Transcriber.Enabled = true
	results = Check(cfg)
	if len(results) != 2 || results[1].Name != "Whisper" {
		t.Fatalf("results = %+v", results)
	}
	if !results[1].Optional {
		t.Fatal("whisper should be optional")
	}
}
