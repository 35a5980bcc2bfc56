package core

import "sync"

// DefaultQueueSize is the capacity of a session's command and event queues.
const DefaultQueueSize = 32

// Session is one connected client as seen by the core layer.
// It starts anonymous and becomes authenticated at most once.
type Session struct {
	ID       string
	Commands chan *Command

	events chan *Event
	done   chan struct{}

	mu     sync.Mutex
	email  string
	closed bool
}

// NewSession constructs a session with initialized queues.
func NewSession(id string, queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Session{
		ID:       id,
		Commands: make(chan *Command, queueSize),
		events:   make(chan *Event, queueSize),
		done:     make(chan struct{}),
	}
}

// Events returns the queue of outbound events. It is closed when the session ends.
func (s *Session) Events() <-chan *Event {
	return s.events
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Email returns the authenticated email, if any.
func (s *Session) Email() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email, s.email != ""
}

// Authenticated reports whether a token was verified on this session.
func (s *Session) Authenticated() bool {
	_, ok := s.Email()
	return ok
}

// authenticate records email on the first successful verification.
// Later calls leave the session unchanged and return false.
func (s *Session) authenticate(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.email != "" || email == "" {
		return false
	}
	s.email = email
	return true
}

// send queues an event without blocking. Returns false if the session
// is closed or its queue is full.
func (s *Session) send(event *Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- event:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	close(s.events)
}
