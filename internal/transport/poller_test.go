package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestPollerPublishesUntilFinished(t *testing.T) {
	var mu sync.Mutex
	var served int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		served++
		n := served
		mu.Unlock()
		progress := Progress{LogPos: int64(n * 100), Context: []string{"solve", "iter"}, State: StateRunning}
		if n >= 3 {
			progress.State = StateFinished
		}
		json.NewEncoder(w).Encode(progress)
	}))
	defer srv.Close()

	var got []Progress
	var gotMu sync.Mutex
	poller := NewPoller(srv.URL, 5*time.Millisecond, func(p Progress) {
		gotMu.Lock()
		got = append(got, p)
		gotMu.Unlock()
	})

	if err := poller.Run(context.Background()); err != nil {
		t.Fatalf("expected clean termination, got %v", err)
	}

	gotMu.Lock()
	defer gotMu.Unlock()
	if len(got) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(got))
	}
	if !got[2].Finished() {
		t.Error("expected the final snapshot to report finished")
	}
	if got[0].LogPos != 100 || len(got[0].Context) != 2 {
		t.Errorf("unexpected first snapshot: %+v", got[0])
	}
}

func TestPollerRetriesTransientFailures(t *testing.T) {
	var mu sync.Mutex
	var served int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		served++
		n := served
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Progress{LogPos: 10, State: StateFinished})
	}))
	defer srv.Close()

	var updates int
	poller := NewPoller(srv.URL, 5*time.Millisecond, func(Progress) { updates++ })
	if err := poller.Run(context.Background()); err != nil {
		t.Fatalf("expected failure to be transient, got %v", err)
	}
	if updates != 1 {
		t.Errorf("expected exactly the successful fetch to publish, got %d", updates)
	}
}

func TestPollerStopsOnContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Progress{State: StateRunning})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(srv.URL, time.Millisecond, func(Progress) {})
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestSetVisibleNeverBlocks(t *testing.T) {
	poller := NewPoller("http://invalid", time.Second, func(Progress) {})
	for i := 0; i < 10; i++ {
		poller.SetVisible(i%2 == 0)
	}
}
