package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUpdatesOff is the terminal tail error: the server answered in a way the
// fetcher cannot resume from, so live updates stop while everything decoded
// so far stays on screen.
var ErrUpdatesOff = errors.New("log updates turned off")

// Tailer incrementally fetches an append-only byte stream with HTTP range
// requests and feeds each new chunk to sink. It sleeps between requests,
// suspends on a wake channel once caught up, and terminates when the job is
// finished and fully fetched.
//
// Range requests start one byte before the fetched position: a server that
// cannot serve the exact range would otherwise silently answer with the full
// content, and the overlap byte makes that case detectable.
type Tailer struct {
	url      string
	client   *http.Client
	sink     io.Writer
	interval time.Duration
	wake     chan struct{}
	log      *logrus.Entry

	mu        sync.Mutex
	fetched   int64
	available int64
	finished  bool
}

// NewTailer returns a tailer feeding decoded chunks of url to sink, pausing
// interval between consecutive range requests.
func NewTailer(url string, sink io.Writer, interval time.Duration) *Tailer {
	return &Tailer{
		url:      url,
		client:   http.DefaultClient,
		sink:     sink,
		interval: interval,
		wake:     make(chan struct{}, 1),
		log:      logrus.WithField("component", "tailer"),
	}
}

// Publish records how many bytes exist server-side and whether the job has
// finished, waking the fetch loop if it was suspended. The update to the
// shared counters happens before the wake-up.
func (t *Tailer) Publish(available int64, finished bool) {
	t.mu.Lock()
	if available > t.available {
		t.available = available
	}
	t.finished = t.finished || finished
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Fetched returns the number of bytes fetched and decoded so far.
func (t *Tailer) Fetched() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetched
}

// Run fetches until the job is finished and fully fetched, ctx is done, or a
// terminal transport or decode error occurs.
func (t *Tailer) Run(ctx context.Context) error {
	for {
		t.mu.Lock()
		fetched, available, finished := t.fetched, t.available, t.finished
		t.mu.Unlock()

		if fetched >= available {
			if finished {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.wake:
			}
			continue
		}

		n, err := t.fetchFrom(ctx, fetched)
		if err != nil {
			return err
		}
		t.mu.Lock()
		t.fetched = n
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.interval):
		}
	}
}

// fetchFrom requests bytes from offset fetched onward (with the one-byte
// lookback for non-first requests) and returns the new fetched position.
func (t *Tailer) fetchFrom(ctx context.Context, fetched int64) (int64, error) {
	start := fetched
	if start > 0 {
		start--
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return fetched, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", start))

	resp, err := t.client.Do(req)
	if err != nil {
		return fetched, fmt.Errorf("%w: %v", ErrUpdatesOff, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		first, last, err := parseContentRange(resp.Header.Get("Content-Range"))
		if err != nil {
			return fetched, fmt.Errorf("%w: %v", ErrUpdatesOff, err)
		}
		if first > start || last < first {
			return fetched, fmt.Errorf("%w: range %d-%d does not cover offset %d", ErrUpdatesOff, first, last, start)
		}
		// Drop the overlap: everything before the already-fetched position.
		if skip := fetched - first; skip > 0 {
			if _, err := io.CopyN(io.Discard, resp.Body, skip); err != nil {
				return fetched, fmt.Errorf("%w: %v", ErrUpdatesOff, err)
			}
		}
		if _, err := io.Copy(t.sink, resp.Body); err != nil {
			return fetched, err
		}
		return last + 1, nil

	case http.StatusOK:
		// Acceptable only for the very first request, from a server that
		// cannot serve partial content at all.
		if fetched > 0 {
			return fetched, fmt.Errorf("%w: full response to a range request at offset %d", ErrUpdatesOff, start)
		}
		n, err := io.Copy(t.sink, resp.Body)
		if err != nil {
			return fetched, err
		}
		return n, nil

	default:
		return fetched, fmt.Errorf("%w: unexpected status %s", ErrUpdatesOff, resp.Status)
	}
}

// parseContentRange extracts the first and last byte position from a header
// of the form "bytes A-B/total".
func parseContentRange(header string) (first, last int64, err error) {
	rest, ok := strings.CutPrefix(header, "bytes ")
	if !ok {
		return 0, 0, fmt.Errorf("invalid Content-Range %q", header)
	}
	span, _, ok := strings.Cut(rest, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid Content-Range %q", header)
	}
	a, b, ok := strings.Cut(span, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid Content-Range %q", header)
	}
	if first, err = strconv.ParseInt(a, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid Content-Range %q", header)
	}
	if last, err = strconv.ParseInt(b, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid Content-Range %q", header)
	}
	return first, last, nil
}
