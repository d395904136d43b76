// Package bus provides the in-process publish/subscribe channel shared by the
// playback controller and the rest of the UI. Delivery is synchronous and
// ordered per event type; there is no persistence or replay.
package bus

import "sync"

// Handler consumes one event.
type Handler func(Event)

// Subscription identifies one registered handler so it can be removed again.
type Subscription struct {
	eventType EventType
	id        uint64
}

// Bus is a many-publisher / many-subscriber channel keyed by event type.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	// 事件类型 -> 订阅ID -> 处理函数
	handlers map[EventType]map[uint64]Handler
	// 保持每个事件类型内的注册顺序，保证按订阅顺序投递
	order map[EventType][]uint64
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[EventType]map[uint64]Handler),
		order:    make(map[EventType][]uint64),
	}
}

// Subscribe registers a handler for one event type and returns its
// subscription handle.
func (b *Bus) Subscribe(t EventType, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[t] == nil {
		b.handlers[t] = make(map[uint64]Handler)
	}
	b.nextID++
	id := b.nextID
	b.handlers[t][id] = h
	b.order[t] = append(b.order[t], id)

	return &Subscription{eventType: t, id: id}
}

// Unsubscribe removes a previously registered handler. Removing an already
// removed subscription is a no-op.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, ok := b.handlers[sub.eventType]
	if !ok {
		return
	}
	delete(handlers, sub.id)

	ids := b.order[sub.eventType]
	for i, id := range ids {
		if id == sub.id {
			b.order[sub.eventType] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

// Emit delivers the event to every handler currently registered for its type,
// in subscription order, on the caller's goroutine.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	ids := b.order[e.Type]
	snapshot := make([]Handler, 0, len(ids))
	for _, id := range ids {
		if h, ok := handlers[id]; ok {
			snapshot = append(snapshot, h)
		}
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(e)
	}
}
