package shared

// Subscription identifies a listener registered on an Event
type Subscription uint64

// Event is a multicast notification with any number of listeners.
// Listeners run synchronously in subscription order. Subscribing or
// unsubscribing from inside a listener affects the next Invoke, not the
// current one.
type Event[T any] struct {
	nextID    Subscription
	listeners []eventListener[T]
}

type eventListener[T any] struct {
	id Subscription
	fn func(T)
}

// Subscribe registers fn and returns a handle for Unsubscribe
func (e *Event[T]) Subscribe(fn func(T)) Subscription {
	if fn == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, eventListener[T]{id: e.nextID, fn: fn})
	return e.nextID
}

// Unsubscribe removes a listener. Unknown handles are ignored.
func (e *Event[T]) Unsubscribe(id Subscription) {
	for i, l := range e.listeners {
		if l.id == id {
			next := make([]eventListener[T], 0, len(e.listeners)-1)
			next = append(next, e.listeners[:i]...)
			next = append(next, e.listeners[i+1:]...)
			e.listeners = next
			return
		}
	}
}

// Invoke calls every listener with payload
func (e *Event[T]) Invoke(payload T) {
	snapshot := e.listeners
	for _, l := range snapshot {
		l.fn(payload)
	}
}

// ListenerCount returns the number of registered listeners
func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
