package audit

// Observer receives every event emitted by the core. Implementations must not block.
type Observer interface {
	Record(event Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(event Event)

func (f ObserverFunc) Record(event Event) { f(event) }

type nop struct{}

func (nop) Record(Event) {}

// Nop discards events.
var Nop Observer = nop{}

// Multi fans an event out to every observer in order.
type Multi []Observer

func (m Multi) Record(event Event) {
	for _, o := range m {
		o.Record(event)
	}
}
