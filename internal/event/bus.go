// Package event carries the fire-and-forget feedback events the motion system
// publishes for audio, particle and camera collaborators. Delivery is
// synchronous and in subscription order: the simulation is single-threaded and
// frame-driven, and trace output must be deterministic across runs.
package event

import (
	"log/slog"
	"sync"
)

type HandlerFunc func(evt any)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
	}
}

func (b *Bus) Subscribe(eventName string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish delivers evt to every subscriber of eventName. A panicking handler
// is logged and skipped; it never propagates back into the simulation tick.
func (b *Bus) Publish(eventName string, evt any) {
	b.mu.RLock()
	handlers := make([]HandlerFunc, len(b.handlers[eventName]))
	copy(handlers, b.handlers[eventName])
	b.mu.RUnlock()

	for _, handler := range handlers {
		deliver(eventName, handler, evt)
	}
}

func deliver(eventName string, h HandlerFunc, evt any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked", "event", eventName, "panic", r)
		}
	}()
	h(evt)
}
