package plugin

// EventBus is a typed publish/subscribe channel set. Each listener runs
// isolated from the others: a panicking listener is recovered and never
// prevents the rest from running (spec.md §4.9).
type EventBus struct {
	listeners map[EventKey][]eventListener
	nextID    uint64
}

type eventListener struct {
	id uint64
	fn func(payload any)
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[EventKey][]eventListener)}
}

// On subscribes fn to key and returns an unsubscribe function.
func (b *EventBus) On(key EventKey, fn func(payload any)) func() {
	id := b.nextID
	b.nextID++
	b.listeners[key] = append(b.listeners[key], eventListener{id: id, fn: fn})
	return func() { b.unsubscribe(key, id) }
}

func (b *EventBus) unsubscribe(key EventKey, id uint64) {
	ls := b.listeners[key]
	for i, l := range ls {
		if l.id == id {
			b.listeners[key] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Emit invokes every listener subscribed to key, in subscription order
// (spec.md §5 "Ordering guarantees"), isolating each from the others'
// panics.
func (b *EventBus) Emit(key EventKey, payload any) {
	for _, l := range append([]eventListener(nil), b.listeners[key]...) {
		callListener(l.fn, payload)
	}
}

func callListener(fn func(payload any), payload any) {
	defer func() { _ = recover() }()
	fn(payload)
}
