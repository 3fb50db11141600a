package realtime

import "context"

// Bus fans out events to every instance of the service.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, onEvent func(Event)) error
	Close() error
}

// NopBus drops every event. It is used when no broker is configured.
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) error { return nil }

func (NopBus) Subscribe(context.Context, func(Event)) error { return nil }

func (NopBus) Close() error { return nil }
