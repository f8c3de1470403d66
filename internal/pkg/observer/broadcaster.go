package observer

import (
	"github.com/cmlabs-hris/workforce-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/sse"
)

// Broadcaster forwards events to SSE subscribers of the event's topic.
type Broadcaster struct {
	hub *sse.Hub
}

func NewBroadcaster(hub *sse.Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) Record(event audit.Event) {
	b.hub.Publish(sse.Event{
		Topic: Topic(event.Action),
		Event: string(event.Action),
		Data:  event,
	})
}
