package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileTailerFollowsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.data")
	if err := os.WriteFile(path, []byte("0c\"a\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var sink bytes.Buffer
	tailer := NewFileTailer(path, &sink, time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- tailer.Run(context.Background()) }()

	tailer.Publish(6, false)
	waitFetched(t, tailer, 6)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("1t2\"b\"\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()
	tailer.Publish(13, true)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean termination, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("file tailer did not terminate")
	}
	if got := sink.String(); got != "0c\"a\"\n1t2\"b\"\n" {
		t.Errorf("unexpected stream: %q", got)
	}
}

func TestFilePollerReadsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	snapshot := Progress{LogPos: 42, Context: []string{"solve"}, Text: "residual 1e-3", State: StateFinished}
	data, _ := json.Marshal(snapshot)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	var got Progress
	poller := NewFilePoller(path, time.Millisecond, func(p Progress) { got = p })
	if err := poller.Run(context.Background()); err != nil {
		t.Fatalf("expected clean termination, got %v", err)
	}
	if got.LogPos != 42 || got.Text != "residual 1e-3" || !got.Finished() {
		t.Errorf("unexpected snapshot: %+v", got)
	}
}

func TestFilePollerRetriesMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")

	poller := NewFilePoller(path, time.Millisecond, func(Progress) {})
	done := make(chan error, 1)
	go func() { done <- poller.Run(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	data, _ := json.Marshal(Progress{LogPos: 1, State: StateFinished})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean termination, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("file poller did not terminate")
	}
}
