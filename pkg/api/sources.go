package api

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// SliceSource is an in-memory FIFO event source. It delivers one queued
// event per poll.
type SliceSource struct {
	mu      sync.Mutex
	queue   []any
	stopped bool
}

var (
	_ EventSource = (*SliceSource)(nil)
	_ Discarder   = (*SliceSource)(nil)
	_ Restartable = (*SliceSource)(nil)
)

// NewSliceSource returns a source pre-loaded with events.
func NewSliceSource(events ...any) *SliceSource {
	return &SliceSource{queue: append([]any(nil), events...)}
}

// Push appends events to the queue.
func (s *SliceSource) Push(events ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, events...)
}

// Len returns the number of queued events.
func (s *SliceSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *SliceSource) NextEvent(ctx context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || len(s.queue) == 0 {
		return nil, ErrNoEvent
	}
	ev := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return ev, nil
}

// DiscardEvents drops every queued event.
func (s *SliceSource) DiscardEvents(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	return nil
}

// Stop pauses delivery. Queued and pushed events are kept.
func (s *SliceSource) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *SliceSource) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = false
	return nil
}

// ChanSource polls a channel without blocking. It lets goroutines outside the
// engine (timers, network readers) feed a flow.
type ChanSource[T any] struct {
	ch <-chan T
}

// NewChanSource wraps ch.
func NewChanSource[T any](ch <-chan T) *ChanSource[T] {
	return &ChanSource[T]{ch: ch}
}

func (s *ChanSource[T]) NextEvent(ctx context.Context) (any, error) {
	select {
	case ev, ok := <-s.ch:
		if !ok {
			return nil, ErrSourceClosed
		}
		return ev, nil
	default:
		return nil, ErrNoEvent
	}
}

// DiscardEvents drains whatever is currently buffered in the channel.
func (s *ChanSource[T]) DiscardEvents(ctx context.Context) error {
	for {
		select {
		case _, ok := <-s.ch:
			if !ok {
				return nil
			}
		default:
			return nil
		}
	}
}

// LineSource reads one line per poll from r. Polls block until a line is
// available; at end of input NextEvent returns io.EOF.
type LineSource struct {
	scanner *bufio.Scanner
}

// NewLineSource returns a LineSource reading from r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

func (s *LineSource) NextEvent(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
