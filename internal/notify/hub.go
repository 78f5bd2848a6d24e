package notify

import (
	"log/slog"
	"sync"

	"github.com/sangsom/minime/internal/model"
)

const subscriberBufferSize = 64

// subscriber is one listener on the event stream
type subscriber struct {
	ch chan model.Event
}

// Hub fans session and profile events out to subscribers. Display code
// subscribes here to refresh shown values; the persistence core never
// hands out anything else.
type Hub struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[*subscriber]struct{}

	register   chan *subscriber
	unregister chan *subscriber
	events     chan model.Event
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a hub; call Run in a goroutine to start delivery
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger.With(slog.String("component", "notify")),
		subs:       make(map[*subscriber]struct{}),
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		events:     make(chan model.Event, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's delivery loop
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subs[sub] = struct{}{}
			count := len(h.subs)
			h.mu.Unlock()
			h.logger.Debug("subscriber added", slog.Int("total", count))

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subs[sub]; ok {
				delete(h.subs, sub)
				close(sub.ch)
			}
			count := len(h.subs)
			h.mu.Unlock()
			h.logger.Debug("subscriber removed", slog.Int("total", count))

		case ev := <-h.events:
			h.mu.RLock()
			dropped := 0
			for sub := range h.subs {
				select {
				case sub.ch <- ev:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("event dropped - subscriber buffer full",
					slog.String("type", string(ev.Type)),
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			for sub := range h.subs {
				close(sub.ch)
				delete(h.subs, sub)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. The channel is closed on cancel or hub shutdown.
func (h *Hub) Subscribe() (<-chan model.Event, func()) {
	sub := &subscriber{ch: make(chan model.Event, subscriberBufferSize)}

	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.ch)
		return sub.ch, func() {}
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			select {
			case h.unregister <- sub:
			case <-h.done:
			}
		})
	}
	return sub.ch, cancel
}

// Publish enqueues an event for delivery. Never blocks; if the hub's
// buffer is full the event is dropped with a warning.
func (h *Hub) Publish(ev model.Event) {
	select {
	case h.events <- ev:
	case <-h.done:
	default:
		h.logger.Warn("event dropped - hub buffer full", slog.String("type", string(ev.Type)))
	}
}

// Close shuts down the hub and closes all subscriber channels
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
