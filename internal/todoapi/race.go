package todoapi

import (
	"context"
	"net/http"
	"time"
)

// raceOutcome is the result of racing a request against the timeout timer.
// Exactly one variant is produced per request.
type raceOutcome interface {
	isRaceOutcome()
}

type responded struct{ resp *http.Response }

type timedOut struct{}

type transportFailed struct{ cause error }

// cancelled means the caller's context ended before either side settled.
type cancelled struct{ cause error }

func (responded) isRaceOutcome()       {}
func (timedOut) isRaceOutcome()        {}
func (transportFailed) isRaceOutcome() {}
func (cancelled) isRaceOutcome()       {}

// race starts req and a timer; whichever settles first decides the outcome.
// The returned release func must be called once the response body has been
// consumed. A losing request is abandoned: its context is cancelled and any
// late response body is closed.
func race(ctx context.Context, client *http.Client, req *http.Request, timeout time.Duration) (raceOutcome, func()) {
	reqCtx, cancel := context.WithCancel(ctx)
	results := make(chan raceOutcome, 1)

	go func() {
		resp, err := client.Do(req.WithContext(reqCtx))
		if err != nil {
			results <- transportFailed{cause: err}
			return
		}
		results <- responded{resp: resp}
	}()

	abandon := func() {
		cancel()
		go func() {
			if r, ok := (<-results).(responded); ok {
				_ = r.resp.Body.Close()
			}
		}()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-results:
		if tf, ok := out.(transportFailed); ok {
			cancel()
			if ctx.Err() != nil {
				return cancelled{cause: ctx.Err()}, func() {}
			}
			return tf, func() {}
		}
		return out, cancel
	case <-timer.C:
		abandon()
		return timedOut{}, func() {}
	case <-ctx.Done():
		abandon()
		return cancelled{cause: ctx.Err()}, func() {}
	}
}
