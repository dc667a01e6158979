package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/pders01/qlaunch/internal/result"
)

// Slot is one independently resolving row of a result list, such as the
// local and public address rows of the IP utility. Placeholder is shown
// until Resolve returns; a failure or timeout shows Failure(err) instead.
type Slot struct {
	ID          string
	Placeholder result.Item
	Resolve     func(ctx context.Context) (result.Item, error)
	Failure     func(err error) result.Item
	Timeout     time.Duration
}

// SlotToken identifies a slot request.
type SlotToken struct {
	Epoch uint64
	Mode  string
	Slot  string
}

// SlotJob runs one slot.
type SlotJob struct {
	Token SlotToken
	ctx   context.Context
	slot  Slot
}

// SlotCompletion carries the row that replaces a slot's placeholder.
type SlotCompletion struct {
	Token SlotToken
	Item  result.Item
}

// Slots prepares jobs for the given slots, bound to the current epoch.
func (d *Dispatcher) Slots(modeKey string, slots []Slot) []SlotJob {
	jobs := make([]SlotJob, 0, len(slots))
	for _, s := range slots {
		jobs = append(jobs, SlotJob{
			Token: SlotToken{Epoch: d.epoch, Mode: modeKey, Slot: s.ID},
			ctx:   d.epochCtx,
			slot:  s,
		})
	}
	return jobs
}

// Run resolves the slot. Errors never escape: they become the slot's
// failure row, and the row always carries the slot's ID.
func (j SlotJob) Run() SlotCompletion {
	ctx := j.ctx
	if j.slot.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.slot.Timeout)
		defer cancel()
	}

	item, err := j.slot.Resolve(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		item = j.failure(err)
	}
	item.ID = j.slot.ID
	return SlotCompletion{Token: j.Token, Item: item}
}

func (j SlotJob) failure(err error) result.Item {
	if j.slot.Failure != nil {
		return j.slot.Failure(err)
	}
	f := j.slot.Placeholder
	f.Subtitle = "unavailable: " + err.Error()
	return f
}

// AcceptSlot reports whether c may replace its placeholder.
func (d *Dispatcher) AcceptSlot(c SlotCompletion, modeKey string) bool {
	return c.Token.Epoch == d.epoch && c.Token.Mode == modeKey
}
