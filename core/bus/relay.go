package bus

import "sync"

// Relay wraps a replaceable handler behind a fixed identity. The relay's
// Handle method is registered on the bus once; Swap changes the logic it
// forwards to without touching the registration.
type Relay struct {
	mu sync.RWMutex
	fn Handler
}

// NewRelay creates a relay forwarding to fn. A nil fn drops events until
// Swap is called.
func NewRelay(fn Handler) *Relay {
	return &Relay{fn: fn}
}

// Swap replaces the wrapped handler.
func (r *Relay) Swap(fn Handler) {
	r.mu.Lock()
	r.fn = fn
	r.mu.Unlock()
}

// Handle forwards the event to the current handler.
func (r *Relay) Handle(e Event) {
	r.mu.RLock()
	fn := r.fn
	r.mu.RUnlock()

	if fn != nil {
		fn(e)
	}
}
