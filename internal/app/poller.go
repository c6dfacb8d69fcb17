package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/five82/jot/internal/state"
)

const (
	defaultWatchInterval = 5 * time.Second
	maxBackoff           = 30 * time.Second
)

// Watch prints the list every interval until the context is cancelled.
// Consecutive failures back off exponentially up to maxBackoff.
func Watch(ctx context.Context, opts Options, interval time.Duration) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	store := rt.newStore()
	watch(ctx, store, interval, rt.logger, func(snap state.Snapshot) {
		renderSnapshot(rt.out, snap, time.Now())
	})
	return nil
}

// watch refreshes store in a loop, calling render after every attempt. It
// returns when ctx is done.
func watch(ctx context.Context, store *state.Store, interval time.Duration, logger *zap.Logger, render func(state.Snapshot)) {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	failures := 0

	for {
		if err := store.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			logger.Warn("todo poll failed",
				zap.Error(err),
				zap.Int("consecutive_failures", failures),
			)
		} else {
			failures = 0
		}
		render(store.Snapshot())

		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff. A base already above the cap is used unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	d := base
	for i := 0; i < failures && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

func renderSnapshot(w io.Writer, snap state.Snapshot, now time.Time) {
	fmt.Fprintf(w, "\n%s\n", now.Format("15:04:05"))
	if snap.List.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", snap.List.Error)
		return
	}
	printTodos(w, snap.List.Todos, now)
}
