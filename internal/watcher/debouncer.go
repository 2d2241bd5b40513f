package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid file events so a burst of writes to the
// same deck (editors save PDFs in several passes) triggers one rebuild,
// not one per write. Paths seen within the window are merged into a
// single batch.
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]struct{}
	output  chan []string
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer with the given window duration.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]struct{}),
		output:  make(chan []string, 4),
	}
}

// Add records a changed path and (re)arms the flush timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	batch := make([]string, 0, len(d.pending))
	for path := range d.pending {
		batch = append(batch, path)
	}
	d.pending = make(map[string]struct{})

	select {
	case d.output <- batch:
	default:
		// Receiver is mid-rebuild; the next event re-arms the timer.
	}
}

// Output returns the channel of debounced path batches.
func (d *Debouncer) Output() <-chan []string {
	return d.output
}

// Stop stops the debouncer and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
