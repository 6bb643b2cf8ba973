package common

import (
	"log"
	"sync"
	"time"
)

// Watchdog closes its Done channel when no activity is recorded within the
// timeout. Readers call Kick on every chunk of input they receive.
type Watchdog struct {
	timeout time.Duration
	timer   *time.Timer
	doneCh  chan struct{}
	once    sync.Once
	mu      sync.Mutex
	running bool
	fired   bool
}

// NewWatchdog creates a new Watchdog.
// If timeout is <= 0, the watchdog is inert and never fires.
func NewWatchdog(timeout time.Duration) *Watchdog {
	return &Watchdog{
		timeout: timeout,
		doneCh:  make(chan struct{}),
	}
}

// Start arms the timer and returns the channel closed on timeout.
func (w *Watchdog) Start() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return w.doneCh
	}
	w.running = true

	if w.timeout > 0 {
		w.timer = time.AfterFunc(w.timeout, w.fire)
	}
	return w.doneCh
}

// Kick resets the timeout. It is a no-op once the watchdog has fired.
func (w *Watchdog) Kick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running || w.timer == nil || w.fired {
		return
	}
	w.timer.Reset(w.timeout)
}

// Stop disarms the watchdog.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

// Done returns the channel closed on timeout.
func (w *Watchdog) Done() <-chan struct{} {
	return w.doneCh
}

// Err returns ErrScanTimeout once the watchdog has fired, nil before.
func (w *Watchdog) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fired {
		return ErrScanTimeout
	}
	return nil
}

func (w *Watchdog) fire() {
	w.once.Do(func() {
		w.mu.Lock()
		w.fired = true
		w.mu.Unlock()
		log.Printf("[MKTABLE] No input received for %v, giving up.", w.timeout)
		close(w.doneCh)
	})
}
