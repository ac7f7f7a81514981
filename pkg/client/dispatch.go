package client

import (
	"encoding/json"
	"sync"

	"github.com/timkanbur/asyncNetwork/pkg/logger"
)

// Listener handles one application event.
type Listener func(data json.RawMessage)

// Dispatcher maps event names to ordered listener lists, decoupling
// transport receipt from application handling. Registration order is
// invocation order; duplicate registrations are allowed and fire twice.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	log       *logger.Logger
}

func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{listeners: map[string][]Listener{}, log: log}
}

// AddListener appends a listener for the given event type.
func (d *Dispatcher) AddListener(event string, fn Listener) {
	d.mu.Lock()
	d.listeners[event] = append(d.listeners[event], fn)
	d.mu.Unlock()
	d.log.Debug().Msgf("Listener added: %v", event)
}

// Trigger invokes the listeners of an event sequentially in
// registration order. An event without listeners is logged and
// skipped, not an error.
func (d *Dispatcher) Trigger(event string, data json.RawMessage) {
	d.mu.RLock()
	fns := make([]Listener, len(d.listeners[event]))
	copy(fns, d.listeners[event])
	d.mu.RUnlock()

	if len(fns) == 0 {
		d.log.Warn().Msgf("No listeners for event: %v", event)
		return
	}
	d.log.Debug().Msgf("Trigger %v", event)
	for _, fn := range fns {
		fn(data)
	}
}
