// Package transport retrieves a job's append-only log stream and progress
// snapshot over HTTP. A tail fetcher issues incremental range requests while
// a progress poller publishes how many bytes exist server-side and wakes the
// fetcher when that grows.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Run states reported by the progress endpoint.
const (
	StateRunning  = "running"
	StateFinished = "finished"
)

// Progress is the producer's periodically rewritten snapshot.
type Progress struct {
	LogPos  int64    `json:"logpos"`
	Context []string `json:"context"`
	Text    string   `json:"text,omitempty"`
	State   string   `json:"state"`
}

// Finished reports whether the producing job has ended.
func (p Progress) Finished() bool {
	return p.State == StateFinished
}

// Poller fetches the progress snapshot at a fixed interval and hands each
// snapshot to its callback. While the terminal is not visible it suspends
// entirely and resumes on the next visibility signal. Fetch failures are
// transient: logged, skipped, retried next interval.
type Poller struct {
	url      string
	client   *http.Client
	interval time.Duration
	update   func(Progress)
	visible  chan bool
	log      *logrus.Entry
}

// NewPoller returns a poller for url calling update after every successful
// fetch, including the final one reporting the finished state.
func NewPoller(url string, interval time.Duration, update func(Progress)) *Poller {
	return &Poller{
		url:      url,
		client:   http.DefaultClient,
		interval: interval,
		update:   update,
		visible:  make(chan bool, 1),
		log:      logrus.WithField("component", "poller"),
	}
}

// SetVisible feeds the visibility signal. It never blocks; with a signal
// already pending the newest value wins.
func (p *Poller) SetVisible(v bool) {
	for {
		select {
		case p.visible <- v:
			return
		default:
			select {
			case <-p.visible:
			default:
			}
		}
	}
}

// Run polls until the job reports finished or ctx is done. It fetches once
// immediately and then on every interval tick while visible.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	visible := true
	for {
		if visible {
			if done := p.poll(ctx); done {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-p.visible:
			if v && !visible {
				visible = true
				continue // resume with an immediate fetch
			}
			visible = v
		case <-ticker.C:
		}
	}
}

// poll performs one fetch; it reports true when polling should stop.
func (p *Poller) poll(ctx context.Context) bool {
	progress, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.log.WithError(err).Warn("progress fetch failed, retrying next interval")
		return false
	}
	p.update(progress)
	return progress.Finished()
}

func (p *Poller) fetch(ctx context.Context) (Progress, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Progress{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Progress{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Progress{}, fmt.Errorf("progress endpoint returned %s", resp.Status)
	}
	var progress Progress
	if err := json.NewDecoder(resp.Body).Decode(&progress); err != nil {
		return Progress{}, fmt.Errorf("decoding progress snapshot: %w", err)
	}
	return progress, nil
}
