package domain

import "context"

type EventKind int8

const (
	CommentsChanged EventKind = 1
	LikesChanged    EventKind = 2
	SessionReset    EventKind = 3
)

func (k EventKind) String() string {
	switch k {
	case CommentsChanged:
		return "comments"
	case LikesChanged:
		return "likes"
	case SessionReset:
		return "reset"
	default:
		return "unknown"
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// StoreEvent tells rendering components that a store changed and should be re-read
type StoreEvent struct {
	SessionID string    `json:"sessionId"`
	Kind      EventKind `json:"kind"`
	ProductID ID        `json:"productId,omitempty"`
}

// Listener is called after a store replaced its state. It must not block.
type Listener func(StoreEvent)

// Publisher delivers coalesced events to subscribers
type Publisher interface {
	Publish(events []StoreEvent)
}

type NotifyWorker interface {
	Start(ctx context.Context)

	// Send queues an event; it never blocks and drops the event when the queue is full
	Send(event StoreEvent)
}
