package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile seeds the target path with size bytes of throwaway audio
// payload, creating parent directories as needed. A size <= 0 still
// writes one byte so the file is never empty.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	payload := bytes.Repeat([]byte("clipcast-fixture "), int(size/17)+1)
	if err := os.WriteFile(path, payload[:size], 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
