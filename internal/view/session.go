package view

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evalf/runview/config"
	"github.com/evalf/runview/internal/stream"
	"github.com/evalf/runview/internal/theater"
	"github.com/evalf/runview/internal/transport"
)

// Names of the two files every run directory serves.
const (
	LogName      = "log.data"
	ProgressName = "progress.json"
)

// poller is the slice of Poller and FilePoller the session drives.
type poller interface {
	SetVisible(bool)
	Run(ctx context.Context) error
}

// Session owns one watched run: the decoder and registry, the tail fetcher
// and progress poller, and the latest progress snapshot. The decoder and
// registry are touched only from the tailer goroutine; the UI reads them
// through Render, which holds the session lock.
type Session struct {
	tailer transport.Source
	poller poller

	mu       sync.Mutex
	dec      *stream.Decoder
	reg      *theater.Registry
	progress transport.Progress
	tailErr  error
	done     bool

	updates chan struct{}
}

// NewSession prepares a session for base, either an HTTP(S) base URL or a
// local run directory, both expected to hold log.data and progress.json.
func NewSession(base string, cfg config.Config) *Session {
	s := &Session{
		reg:     theater.NewRegistry(),
		updates: make(chan struct{}, 1),
	}
	s.dec = stream.NewDecoder(s.reg, stream.NewSuffixes(cfg.ViewableSuffixes))

	if isHTTP(base) {
		s.tailer = transport.NewTailer(joinURL(base, LogName), sessionSink{s}, cfg.FetchInterval.Std())
		s.poller = transport.NewPoller(joinURL(base, ProgressName), cfg.PollInterval.Std(), s.publish)
	} else {
		s.tailer = transport.NewFileTailer(filepath.Join(base, LogName), sessionSink{s}, cfg.FetchInterval.Std())
		s.poller = transport.NewFilePoller(filepath.Join(base, ProgressName), cfg.PollInterval.Std(), s.publish)
	}
	return s
}

func isHTTP(base string) bool {
	u, err := url.Parse(base)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func joinURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + name
}

// Start launches the two transport tasks. They run until their terminal
// condition; neither is cancelled from outside short of ctx.
func (s *Session) Start(ctx context.Context) {
	go func() {
		err := s.tailer.Run(ctx)
		s.mu.Lock()
		s.tailErr = err
		s.done = true
		s.mu.Unlock()
		s.notify()
	}()
	go func() {
		s.poller.Run(ctx)
	}()
}

// Updates signals that the tree, registry, progress or error state changed.
// The channel is bounded; coalesced signals are fine, the UI re-reads
// everything per signal.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// SetVisible forwards the terminal visibility signal to the poller.
func (s *Session) SetVisible(v bool) {
	s.poller.SetVisible(v)
}

// Render runs fn with the session lock held. The tree and registry must not
// be retained past fn.
func (s *Session) Render(fn func(tree *stream.Tree, reg *theater.Registry, progress transport.Progress, tailErr error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.dec.Tree(), s.reg, s.progress, s.tailErr)
}

// Do runs fn under the session lock. Navigation shares the registry with
// the tailer goroutine, which appends to it, so every navigator call from
// the UI goes through here.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Registry returns the plot registry. It must only be used under Do or
// Render.
func (s *Session) Registry() *theater.Registry {
	return s.reg
}

// Done reports whether the tail task has terminated.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// publish is the poller's callback: record the snapshot, then wake the
// tailer, in that order.
func (s *Session) publish(p transport.Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
	s.tailer.Publish(p.LogPos, p.Finished())
	s.notify()
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// sessionSink feeds fetched bytes to the decoder under the session lock.
type sessionSink struct {
	s *Session
}

func (w sessionSink) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	n, err := w.s.dec.Write(p)
	w.s.mu.Unlock()
	w.s.notify()
	return n, err
}
