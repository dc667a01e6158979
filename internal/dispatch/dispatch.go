// Package dispatch routes query changes to the active mode's search
// function, debouncing and cancelling asynchronous searches so that only
// the newest request can ever update the result list.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/qlaunch/internal/result"
)

// ErrTimeout marks a search or slot that ran out of time.
var ErrTimeout = errors.New("timed out")

// SearchFunc produces rows for a query. Async implementations must return
// promptly once ctx is done.
type SearchFunc func(ctx context.Context, query string) ([]result.Item, error)

// Strategy says how a search function is scheduled.
type Strategy struct {
	Async    bool
	Debounce time.Duration
	// Timeout bounds a single async run. Zero means no limit.
	Timeout time.Duration
}

// Sync returns the strategy for searches that run in place.
func Sync() Strategy { return Strategy{} }

// Async returns a debounced strategy.
func Async(debounce, timeout time.Duration) Strategy {
	return Strategy{Async: true, Debounce: debounce, Timeout: timeout}
}

// Route binds a search function to its strategy.
type Route struct {
	Strategy Strategy
	Search   SearchFunc
}

// Token identifies one dispatched request. A completion is relevant only
// while its token matches the dispatcher's latest request and the engine's
// current mode and query.
type Token struct {
	Seq   uint64
	Epoch uint64
	Mode  string
	Query string
}

// Completion is the result of running a Job.
type Completion struct {
	Token Token
	Items []result.Item
	Err   error
}

// Job is a pending async search. The host waits Delay, asks the dispatcher
// whether the token is still Ready and only then calls Run off the owner
// goroutine.
type Job struct {
	Token   Token
	Delay   time.Duration
	ctx     context.Context
	timeout time.Duration
	search  SearchFunc
}

// Context is cancelled once the job is superseded.
func (j Job) Context() context.Context { return j.ctx }

// Run executes the search. It is safe to call from any goroutine.
func (j Job) Run() Completion {
	ctx := j.ctx
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	items, err := j.search(ctx, j.Token.Query)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("search %q: %w", j.Token.Query, ErrTimeout)
	}
	return Completion{Token: j.Token, Items: items, Err: err}
}

// Result of a Dispatch call: either rows produced in place, or a job to
// schedule.
type Result struct {
	Sync  bool
	Items []result.Item
	Err   error
	Job   *Job
}

// Dispatcher hands out request tokens and cancels superseded requests. It
// is owned by the engine goroutine; only Job.Run and SlotJob.Run may run
// elsewhere.
type Dispatcher struct {
	seq      uint64
	epoch    uint64
	epochCtx context.Context
	endEpoch context.CancelFunc
	cancel   context.CancelFunc
}

func New() *Dispatcher {
	d := &Dispatcher{}
	d.epochCtx, d.endEpoch = context.WithCancel(context.Background())
	return d
}

// Dispatch issues a request for query against route on behalf of the mode
// identified by modeKey. Any earlier async request is cancelled, sync ones
// included, since the new query supersedes it.
func (d *Dispatcher) Dispatch(modeKey, query string, route Route) Result {
	d.cancelInflight()
	d.seq++
	tok := Token{Seq: d.seq, Epoch: d.epoch, Mode: modeKey, Query: query}

	if route.Search == nil {
		return Result{Sync: true}
	}
	if !route.Strategy.Async {
		items, err := route.Search(d.epochCtx, query)
		return Result{Sync: true, Items: items, Err: err}
	}

	ctx, cancel := context.WithCancel(d.epochCtx)
	d.cancel = cancel
	return Result{Job: &Job{
		Token:   tok,
		Delay:   route.Strategy.Debounce,
		ctx:     ctx,
		timeout: route.Strategy.Timeout,
		search:  route.Search,
	}}
}

// Ready reports whether a debounced job may start: nothing newer has been
// dispatched and no mode transition happened since.
func (d *Dispatcher) Ready(tok Token) bool {
	return tok.Seq == d.seq && tok.Epoch == d.epoch
}

// Accept reports whether c may be applied given the engine's current mode
// key and query text. Cancelled runs are never accepted.
func (d *Dispatcher) Accept(c Completion, modeKey, query string) bool {
	if !d.Ready(c.Token) || c.Token.Mode != modeKey || c.Token.Query != query {
		return false
	}
	if errors.Is(c.Err, context.Canceled) {
		return false
	}
	d.cancelInflight()
	return true
}

// Cancel invalidates every outstanding request and slot. The engine calls
// it whenever a mode is torn down.
func (d *Dispatcher) Cancel() {
	d.cancelInflight()
	d.endEpoch()
	d.epoch++
	d.epochCtx, d.endEpoch = context.WithCancel(context.Background())
}

// Epoch returns the current transition counter.
func (d *Dispatcher) Epoch() uint64 { return d.epoch }

func (d *Dispatcher) cancelInflight() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
