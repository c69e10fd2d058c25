package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

type Mode int

const (
	// Inline sinks run inside Publish.
	Inline Mode = iota
	// Queued sinks run on the bus worker; events are dropped when the queue is full.
	Queued
)

// Bus fans booking events out to sinks. A nil Bus discards everything.
type Bus struct {
	inline []Sink
	queued []Sink

	queue chan Event
	done  chan struct{}
	once  sync.Once
}

func NewBus(buffer int) *Bus {
	b := &Bus{
		queue: make(chan Event, buffer),
		done:  make(chan struct{}),
	}
	go b.worker()
	return b
}

// Attach must be called before the first Publish.
func (b *Bus) Attach(s Sink, mode Mode) {
	if s == nil {
		return
	}
	if mode == Inline {
		b.inline = append(b.inline, s)
		return
	}
	b.queued = append(b.queued, s)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	if b == nil {
		return
	}

	for _, s := range b.inline {
		if err := s.Handle(ctx, ev); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("sink", s.Name()).Str("event", ev.Type).Msg("event sink failed")
		}
	}

	if len(b.queued) == 0 {
		return
	}

	select {
	case b.queue <- ev:
	default:
		log.Ctx(ctx).Warn().Str("event", ev.Type).Uint("booking_id", ev.BookingID).Msg("event queue full, dropping event")
	}
}

func (b *Bus) worker() {
	defer close(b.done)
	for ev := range b.queue {
		for _, s := range b.queued {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.Handle(ctx, ev); err != nil {
				log.Warn().Err(err).Str("sink", s.Name()).Str("event", ev.Type).Msg("event sink failed")
			}
			cancel()
		}
	}
}

// Close drains the queue and stops the worker.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.once.Do(func() {
		close(b.queue)
		<-b.done
	})
}
