package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/liftlog/internal/logger"
)

// autosaver tracks whether the engine state changed since the last successful
// save. With a zero debounce every mark saves immediately; otherwise a single
// flusher goroutine coalesces marks made within the debounce interval.
type autosaver struct {
	debounce time.Duration
	save     func(context.Context) error

	dirty  atomic.Bool
	saveMu sync.Mutex

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func newAutosaver(debounce time.Duration, save func(context.Context) error) *autosaver {
	a := &autosaver{
		debounce: debounce,
		save:     save,
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	if debounce > 0 {
		a.wg.Add(1)
		go a.run()
	}
	return a
}

func (a *autosaver) mark() {
	a.dirty.Store(true)
	if a.debounce <= 0 {
		_ = a.flush(context.Background())
		return
	}
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

func (a *autosaver) run() {
	defer a.wg.Done()
	for {
		select {
		case <-a.done:
			return
		case <-a.kick:
		}

		timer := time.NewTimer(a.debounce)
		select {
		case <-timer.C:
			_ = a.flush(context.Background())
		case <-a.done:
			timer.Stop()
			return
		}
	}
}

// flush saves if dirty. A failed save leaves the state dirty so the next
// mark or Close retries it.
func (a *autosaver) flush(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	if !a.dirty.Swap(false) {
		return nil
	}
	if err := a.save(ctx); err != nil {
		a.dirty.Store(true)
		logger.Warn("Failed to save state, will retry on next change", "err", err)
		return err
	}
	return nil
}

func (a *autosaver) pending() bool {
	return a.dirty.Load()
}

// close stops the flusher and writes any pending change
func (a *autosaver) close(ctx context.Context) error {
	a.once.Do(func() {
		close(a.done)
		a.wg.Wait()
	})
	return a.flush(ctx)
}
