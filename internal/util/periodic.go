package util

import (
	"sync"
	"time"
)

// PeriodicTask calls fn on a fixed interval between Start and Stop.
//
// Stop only signals the loop and returns immediately, so it is safe to call from
// within fn or while holding a lock fn also takes. A tick that already fired when
// Stop is called may still run, owners re-check their own state inside fn.
type PeriodicTask struct {
	fn func()

	mu       sync.Mutex
	interval time.Duration
	stop     chan struct{}
}

func NewPeriodicTask(interval time.Duration, fn func()) *PeriodicTask {
	return &PeriodicTask{
		fn:       fn,
		interval: interval,
	}
}

// Start begins ticking, a running task is restarted with the current interval
func (t *PeriodicTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop
	go t.loop(t.interval, stop)
}

func (t *PeriodicTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *PeriodicTask) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *PeriodicTask) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// SetInterval changes the tick interval, a running task picks it up immediately
func (t *PeriodicTask) SetInterval(interval time.Duration) {
	t.mu.Lock()
	t.interval = interval
	running := t.stop != nil
	t.mu.Unlock()

	if running {
		t.Start()
	}
}

func (t *PeriodicTask) loop(interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
				t.fn()
			}
		}
	}
}
