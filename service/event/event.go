package event

import "time"

const (
	// TypeAllocated is emitted after a pass completed and its export was written
	TypeAllocated = "allocation.completed"
	// TypeRejected is emitted when a pass was rejected by validation
	TypeRejected = "allocation.rejected"
	// TypeReset is emitted after stored demands and developers were cleared
	TypeReset = "store.reset"
)

// Context describes where an event came from
type Context struct {
	EventType   string `json:"eventType"`
	Mode        string `json:"mode,omitempty"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

// Event represents an envelope carrying data
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
