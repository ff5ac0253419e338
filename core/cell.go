package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Cell is a single grid position's actor. Its state is mutated only by its
// own mailbox loop; the rest of the system holds a *Cell purely as an
// opaque handle for routing messages.
type Cell struct {
	id CellID

	// Channel for receiving messages
	mailbox chan Message

	// Context for controlling the cell lifecycle
	ctx    context.Context
	cancel context.CancelFunc

	// Wait group for graceful shutdown
	wg sync.WaitGroup

	// Atomic counters for lifecycle state and statistics
	state             int32 // CellState
	messagesProcessed uint64
	lastMessageAt     int64 // Unix nanoseconds

	// State owned exclusively by the mailbox loop
	generation uint64
	lastUpdate uint64
	alive      bool

	onFault FaultFunc
}

// NewCell creates a cell with the given initial liveness at generation 0.
// The cell does not process messages until Start is called.
func NewCell(id CellID, alive bool, opts CellOptions) *Cell {
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = DefaultCellOptions().MailboxSize
	}
	if opts.OnFault == nil {
		opts.OnFault = defaultFault
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Cell{
		id:      id,
		mailbox: make(chan Message, opts.MailboxSize),
		ctx:     ctx,
		cancel:  cancel,
		alive:   alive,
		onFault: opts.OnFault,
	}

	atomic.StoreInt32(&c.state, int32(CellStateIdle))

	return c
}

// defaultFault aborts the process: an unrecognized message means the
// coordination layer is broken, and continuing would silently corrupt the
// simulation.
func defaultFault(id CellID, kind Kind) {
	log.Fatalf("cell %d: protocol violation: unexpected message kind %q", id, kind)
}

// ID returns the unique identifier of this cell.
func (c *Cell) ID() CellID {
	return c.id
}

// Start begins the cell's mailbox loop.
func (c *Cell) Start() error {
	if !atomic.CompareAndSwapInt32(&c.state, int32(CellStateIdle), int32(CellStateRunning)) {
		return fmt.Errorf("cell %d is already started (state: %s)",
			c.id, CellState(atomic.LoadInt32(&c.state)))
	}

	c.wg.Add(1)
	go c.mailboxLoop()

	return nil
}

// Stop gracefully shuts down the cell. Queries still queued in the mailbox
// are answered with the final state before the loop exits.
func (c *Cell) Stop() error {
	if !atomic.CompareAndSwapInt32(&c.state, int32(CellStateRunning), int32(CellStateStopping)) {
		return fmt.Errorf("cell %d cannot be stopped from state %s",
			c.id, CellState(atomic.LoadInt32(&c.state)))
	}

	c.cancel()
	c.wg.Wait()

	atomic.StoreInt32(&c.state, int32(CellStateStopped))

	return nil
}

// Send delivers a message to the cell's mailbox. It blocks until the
// mailbox accepts the message, so a successful Send guarantees the message
// is enqueued behind every previously accepted one; the step barrier
// depends on that. It fails only when the cell is shutting down.
func (c *Cell) Send(msg Message) error {
	state := CellState(atomic.LoadInt32(&c.state))
	if state == CellStateStopping || state == CellStateStopped {
		return fmt.Errorf("cell %d is not running (state: %s)", c.id, state)
	}

	select {
	case c.mailbox <- msg:
		return nil
	case <-c.ctx.Done():
		return fmt.Errorf("cell %d is shutting down", c.id)
	}
}

// Query sends a state query and waits for the snapshot reply.
func (c *Cell) Query(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)

	if err := c.Send(Message{Kind: KindQueryState, Reply: reply}); err != nil {
		return Snapshot{}, err
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-c.ctx.Done():
		// The cell answers queued queries while draining, so prefer the
		// reply if it already arrived.
		select {
		case snap := <-reply:
			return snap, nil
		default:
			return Snapshot{}, fmt.Errorf("cell %d is shutting down", c.id)
		}
	}
}

// Stats returns current runtime statistics for this cell.
func (c *Cell) Stats() CellStats {
	var lastMessageAt time.Time
	if ns := atomic.LoadInt64(&c.lastMessageAt); ns > 0 {
		lastMessageAt = time.Unix(0, ns)
	}

	return CellStats{
		ID:                c.id,
		State:             CellState(atomic.LoadInt32(&c.state)),
		MessagesProcessed: atomic.LoadUint64(&c.messagesProcessed),
		MailboxDepth:      len(c.mailbox),
		LastMessageAt:     lastMessageAt,
	}
}

// mailboxLoop is the main processing loop for the cell.
func (c *Cell) mailboxLoop() {
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.mailbox:
			c.processMessage(msg)

		case <-c.ctx.Done():
			c.drainMailbox()
			return
		}
	}
}

// processMessage handles a single message.
func (c *Cell) processMessage(msg Message) {
	atomic.AddUint64(&c.messagesProcessed, 1)
	atomic.StoreInt64(&c.lastMessageAt, time.Now().UnixNano())

	switch msg.Kind {
	case KindQueryState:
		if msg.Reply == nil {
			c.onFault(c.id, msg.Kind)
			return
		}
		msg.Reply <- c.snapshot()

	case KindApplyNeighborCount:
		c.applyNeighborCount(msg.Generation, msg.Count)

	default:
		c.onFault(c.id, msg.Kind)
	}
}

// applyNeighborCount advances the cell to the tagged generation. Tags at or
// below the cell's own generation are duplicates or stale reorderings and
// are ignored, which is what makes the protocol idempotent.
func (c *Cell) applyNeighborCount(generation uint64, count int) {
	if generation <= c.generation {
		return
	}

	next := Rule(c.alive, count)
	if next != c.alive {
		c.lastUpdate = generation
	}
	c.generation = generation
	c.alive = next
}

func (c *Cell) snapshot() Snapshot {
	return Snapshot{
		Generation: c.generation,
		LastUpdate: c.lastUpdate,
		Alive:      c.alive,
	}
}

// drainMailbox services remaining messages during shutdown. Queries are
// still answered (cells never fail to answer); state updates are dropped
// since the simulation is over.
func (c *Cell) drainMailbox() {
	for {
		select {
		case msg := <-c.mailbox:
			if msg.Kind == KindQueryState && msg.Reply != nil {
				msg.Reply <- c.snapshot()
			}
		default:
			return
		}
	}
}
