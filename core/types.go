package core

import "time"

// CellID identifies a cell actor. IDs equal the cell's linear grid offset,
// assigned by the board at construction time.
type CellID uint32

// Kind identifies a message variant in the cell protocol.
//
// The protocol is a closed set: there are exactly two kinds, and any other
// value reaching a cell is a coordination bug, not a data problem.
type Kind uint8

const (
	// KindQueryState requests a snapshot of the cell's current state.
	KindQueryState Kind = iota

	// KindApplyNeighborCount carries a generation-tagged neighbor tally and
	// instructs the cell to recompute its liveness.
	KindApplyNeighborCount
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindQueryState:
		return "query-state"
	case KindApplyNeighborCount:
		return "apply-neighbor-count"
	default:
		return "unknown"
	}
}

// Snapshot is a cell's reply to a state query.
type Snapshot struct {
	// Generation is the highest generation the cell has committed to.
	Generation uint64

	// LastUpdate is the most recent generation in which Alive changed.
	LastUpdate uint64

	// Alive is the current liveness.
	Alive bool
}

// Message is the envelope delivered to a cell actor's mailbox.
type Message struct {
	// Kind selects the message variant.
	Kind Kind

	// Generation tags KindApplyNeighborCount messages with the generation
	// being entered. Unused for queries.
	Generation uint64

	// Count is the neighbor tally for KindApplyNeighborCount. Unused for
	// queries.
	Count int

	// Reply receives the snapshot for KindQueryState. It must be buffered
	// with capacity 1 so the cell never blocks answering. Unused for
	// neighbor-count messages.
	Reply chan<- Snapshot
}

// CellState represents the lifecycle state of a cell actor.
type CellState uint8

const (
	// CellStateIdle means the cell has been created but not started.
	CellStateIdle CellState = iota

	// CellStateRunning means the cell's mailbox loop is active.
	CellStateRunning

	// CellStateStopping means the cell is shutting down.
	CellStateStopping

	// CellStateStopped means the cell has stopped.
	CellStateStopped
)

// String returns the string representation of CellState.
func (s CellState) String() string {
	switch s {
	case CellStateIdle:
		return "idle"
	case CellStateRunning:
		return "running"
	case CellStateStopping:
		return "stopping"
	case CellStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// FaultFunc is invoked when a cell receives a message outside the protocol.
type FaultFunc func(id CellID, kind Kind)

// CellOptions contains configuration options for creating a cell.
type CellOptions struct {
	// MailboxSize sets the capacity of the cell's message queue. Sends
	// block rather than fail when the mailbox is full, so the size only
	// affects how far senders can run ahead.
	MailboxSize int

	// OnFault handles protocol violations. The default logs a diagnostic
	// identifying the cell and message kind and exits non-zero.
	OnFault FaultFunc
}

// DefaultCellOptions returns sensible default options.
func DefaultCellOptions() CellOptions {
	return CellOptions{
		MailboxSize: 16,
	}
}

// CellStats contains runtime statistics for a cell.
type CellStats struct {
	// ID of the cell.
	ID CellID

	// Current lifecycle state.
	State CellState

	// Total messages processed.
	MessagesProcessed uint64

	// Messages currently in the mailbox.
	MailboxDepth int

	// Last message processing time.
	LastMessageAt time.Time
}
