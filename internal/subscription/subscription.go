package subscription

import (
	"log/slog"
	"sync"

	"github.com/marketdeck/realtime/internal/connection"
)

// Handler receives every surfaced message for the bound channel.
type Handler func(connection.Message)

// Subscription owns one connection.Manager for one channel at a time and
// exposes {status, last message, send} to its consumer. Safe for
// concurrent use.
type Subscription struct {
	cfg     connection.Config
	logger  *slog.Logger
	handler Handler

	// Serializes channel switches; without it two concurrent Rebind
	// calls could each install a manager and leak one.
	rebindMu sync.Mutex

	mu      sync.Mutex
	channel string
	mgr     *connection.Manager
	status  connection.State
	last    *connection.Message
	closed  bool
}

// Open creates a subscription for channel and starts connecting. handler
// may be nil when the consumer only polls LastMessage.
func Open(cfg connection.Config, channel string, handler Handler, logger *slog.Logger) *Subscription {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Subscription{
		cfg:     cfg,
		logger:  logger,
		handler: handler,
		status:  connection.StateConnecting,
	}
	s.bind(channel)
	return s
}

// Channel returns the currently bound channel name.
func (s *Subscription) Channel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// Status returns the connection state being relayed to the consumer.
func (s *Subscription) Status() connection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastMessage returns the most recent surfaced message, if any.
func (s *Subscription) LastMessage() (connection.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return connection.Message{}, false
	}
	return *s.last, true
}

// Send forwards v to the current connection, best-effort.
func (s *Subscription) Send(v any) {
	s.mu.Lock()
	mgr := s.mgr
	s.mu.Unlock()
	if mgr != nil {
		mgr.Send(v)
	}
}

// Rebind switches the subscription to another channel. The previous manager
// is torn down first so the two connections are never alive together.
// No-op for the currently bound channel or after Close.
func (s *Subscription) Rebind(channel string) {
	s.rebindMu.Lock()
	defer s.rebindMu.Unlock()

	s.mu.Lock()
	if s.closed || channel == s.channel {
		s.mu.Unlock()
		return
	}
	old := s.mgr
	s.mgr = nil
	s.last = nil
	s.mu.Unlock()

	if old != nil {
		old.Teardown()
	}
	s.bind(channel)
}

// Close tears the subscription down. Idempotent.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	mgr := s.mgr
	s.mgr = nil
	s.mu.Unlock()

	if mgr != nil {
		mgr.Teardown()
	}
}

// bind creates and starts the manager for channel. Callbacks carry the
// manager's identity so events from a superseded manager are ignored.
func (s *Subscription) bind(channel string) {
	var mgr *connection.Manager
	mgr = connection.New(s.cfg, channel, connection.Handlers{
		OnState: func(st connection.State) {
			s.mu.Lock()
			if s.mgr != mgr {
				s.mu.Unlock()
				return
			}
			s.status = st
			s.mu.Unlock()
		},
		OnMessage: func(msg connection.Message) {
			s.mu.Lock()
			if s.mgr != mgr {
				s.mu.Unlock()
				return
			}
			s.last = &msg
			h := s.handler
			s.mu.Unlock()
			if h != nil {
				h(msg)
			}
		},
	}, s.logger)

	s.mu.Lock()
	if s.closed {
		// Closed while rebinding; never start the new manager.
		s.mu.Unlock()
		mgr.Teardown()
		return
	}
	s.channel = channel
	s.mgr = mgr
	s.status = connection.StateConnecting
	s.mu.Unlock()

	mgr.Connect()
}
