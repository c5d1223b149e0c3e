package conductor

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"

	"didsystem/engine/library"
	"didsystem/state/did"
	"didsystem/state/replay"
)

type result struct {
	receipt did.Receipt
	err     error
}

type request struct {
	event nostr.Event
	reply chan result
}

// Conductor is the only writer to the program. Transactions are handled one at a time in
// the order they were submitted.
type Conductor struct {
	program   *did.Program
	replay    *replay.Ledger
	requests  chan request
	pending   *library.Queue[request]
	terminate <-chan struct{}
	wg        *deadlock.WaitGroup

	historyMu *deadlock.Mutex
	history   []nostr.Event
}

func New(program *did.Program, replayLedger *replay.Ledger, terminate <-chan struct{}, wg *deadlock.WaitGroup) *Conductor {
	return &Conductor{
		program:   program,
		replay:    replayLedger,
		requests:  make(chan request),
		pending:   library.NewQueue[request](16),
		terminate: terminate,
		wg:        wg,
		historyMu: &deadlock.Mutex{},
	}
}

// Start runs the handling loop until the terminate channel is closed.
func (c *Conductor) Start() {
	c.wg.Add(1)
	go c.handleEvents()
}

func (c *Conductor) handleEvents() {
	defer c.wg.Done()
L:
	for {
		select {
		case r := <-c.requests:
			c.pending.Push(r)
			// pick up everything that is already waiting before handling
		D:
			for {
				select {
				case r := <-c.requests:
					c.pending.Push(r)
				default:
					break D
				}
			}
			for {
				r, ok := c.pending.Pop()
				if !ok {
					break
				}
				receipt, err := c.handleEvent(r.event)
				r.reply <- result{receipt: receipt, err: err}
			}
		case <-c.terminate:
			library.LogCLI("Conductor has shut down", 4)
			break L
		}
	}
}

func (c *Conductor) handleEvent(e nostr.Event) (did.Receipt, error) {
	if c.replay.Seen(e.ID) {
		return did.Receipt{}, &did.Error{Code: did.CodeInvalidTransaction, Message: fmt.Sprintf("event %s is already in our local state", e.ID)}
	}
	library.LogCLI(fmt.Sprintf("Attempting to handle state change event %s", e.ID), 3)
	receipt, err := c.program.HandleEvent(e)
	if err != nil {
		library.LogCLI(fmt.Sprintf("%s failed: %s", e.ID, err.Error()), 2)
		return did.Receipt{}, err
	}
	if err := c.replay.Mark(e.ID, e.PubKey); err != nil {
		// only this goroutine marks, and Seen was checked above
		library.LogCLI(err.Error(), 0)
	}
	c.historyMu.Lock()
	c.history = append(c.history, e)
	c.historyMu.Unlock()
	library.LogCLI(fmt.Sprintf("Handled state change event %s", e.ID), 3)
	return receipt, nil
}

// Submit hands a signed transaction to the loop and waits for its outcome. The context only
// bounds the wait; a transaction that has been accepted by the loop still runs to completion.
func (c *Conductor) Submit(ctx context.Context, e nostr.Event) (did.Receipt, error) {
	r := request{event: e, reply: make(chan result, 1)}
	select {
	case c.requests <- r:
	case <-c.terminate:
		return did.Receipt{}, fmt.Errorf("conductor has shut down")
	case <-ctx.Done():
		return did.Receipt{}, ctx.Err()
	}
	select {
	case res := <-r.reply:
		return res.receipt, res.err
	case <-ctx.Done():
		return did.Receipt{}, ctx.Err()
	}
}

// History returns the applied transactions in the order they were applied.
func (c *Conductor) History() []nostr.Event {
	c.historyMu.Lock()
	defer c.historyMu.Unlock()
	h := make([]nostr.Event, len(c.history))
	copy(h, c.history)
	return h
}
