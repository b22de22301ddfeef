package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Source is the contract shared by the HTTP and file tail fetchers: a
// progress publication drives how far Run reads, and Run feeds everything it
// reads to the sink in order.
type Source interface {
	Publish(available int64, finished bool)
	Fetched() int64
	Run(ctx context.Context) error
}

// FileTailer follows a log file on local disk under the same contract as
// Tailer. The producing job writes to disk first, so watching a run on the
// same machine needs no HTTP server at all.
type FileTailer struct {
	path     string
	sink     io.Writer
	interval time.Duration
	wake     chan struct{}

	mu        sync.Mutex
	fetched   int64
	available int64
	finished  bool
}

// NewFileTailer returns a tailer feeding chunks of the file at path to sink.
func NewFileTailer(path string, sink io.Writer, interval time.Duration) *FileTailer {
	return &FileTailer{
		path:     path,
		sink:     sink,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Publish records the known file size and whether the job has finished,
// waking the read loop if it was suspended.
func (t *FileTailer) Publish(available int64, finished bool) {
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

// Fetched returns the number of bytes read and decoded so far.
func (t *FileTailer) Fetched() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetched
}

// Run reads until the job is finished and fully read, ctx is done, or the
// sink reports a decode error.
func (t *FileTailer) Run(ctx context.Context) error {
	file, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdatesOff, err)
	}
	defer file.Close()

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

		if _, err := file.Seek(fetched, io.SeekStart); err != nil {
			return fmt.Errorf("%w: %v", ErrUpdatesOff, err)
		}
		n, err := io.CopyN(t.sink, file, available-fetched)
		if err != nil && err != io.EOF {
			return err
		}
		t.mu.Lock()
		t.fetched += n
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.interval):
		}
	}
}

// FilePoller reads the progress snapshot from disk at a fixed interval,
// mirroring Poller for local runs.
type FilePoller struct {
	path     string
	interval time.Duration
	update   func(Progress)
	visible  chan bool
	log      *logrus.Entry
}

// NewFilePoller returns a poller for the progress file at path.
func NewFilePoller(path string, interval time.Duration, update func(Progress)) *FilePoller {
	return &FilePoller{
		path:     path,
		interval: interval,
		update:   update,
		visible:  make(chan bool, 1),
		log:      logrus.WithField("component", "filepoller"),
	}
}

// SetVisible feeds the visibility signal without blocking.
func (p *FilePoller) SetVisible(v bool) {
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

// Run polls until the job reports finished or ctx is done.
func (p *FilePoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	visible := true
	for {
		if visible {
			progress, err := readProgress(p.path)
			if err != nil {
				p.log.WithError(err).Warn("progress read failed, retrying next interval")
			} else {
				p.update(progress)
				if progress.Finished() {
					return nil
				}
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-p.visible:
			if v && !visible {
				visible = true
				continue
			}
			visible = v
		case <-ticker.C:
		}
	}
}

func readProgress(path string) (Progress, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Progress{}, err
	}
	var progress Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return Progress{}, fmt.Errorf("decoding progress snapshot: %w", err)
	}
	return progress, nil
}
