// Package stream carries trace events out of the process: a one-way,
// order-preserving channel to the controlling consumer plus an append-only
// human-readable mirror.
//
// All sinks are written to from the single goroutine executing the traced
// session, in emission order. Sinks must never buffer-and-reorder.
package stream

import "github.com/Darkripper214/js-visualizer-9000-server/internal/trace"

// Sink receives events in emission order.
type Sink interface {
	Send(ev trace.Event) error
	Close() error
}

// Multi fans one event out to several sinks, preserving order within each.
type Multi []Sink

func (m Multi) Send(ev trace.Event) error {
	var first error
	for _, s := range m {
		if err := s.Send(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
