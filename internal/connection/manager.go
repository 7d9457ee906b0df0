package connection

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/marketdeck/realtime/internal/version"
)

// Config holds the transport settings shared by every manager.
type Config struct {
	Host             string        // host:port of the dashboard server
	Secure           bool          // dial wss instead of ws
	BaseDelay        time.Duration // reconnect backoff base (default 1s)
	MaxDelay         time.Duration // reconnect backoff cap (default 30s)
	HandshakeTimeout time.Duration // dial timeout (default 10s)
	WriteTimeout     time.Duration // write deadline for sends (default 5s)
}

func (c *Config) applyDefaults() {
	if c.BaseDelay == 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Second
	}
}

// Handlers receive manager events. Both are optional. They are invoked from
// the manager's internal goroutines and must not block.
type Handlers struct {
	OnState   func(State)
	OnMessage func(Message)
}

// Manager owns one physical WebSocket connection for one named channel,
// plus at most one pending reconnect timer.
type Manager struct {
	cfg      Config
	channel  string
	logger   *slog.Logger
	handlers Handlers

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	attempt  int
	retry    *time.Timer
	tornDown bool

	// Serializes writes (pong replies race with Send).
	writeMu sync.Mutex
}

// New creates a manager for the given channel. Call Connect to start it.
func New(cfg Config, channel string, handlers Handlers, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()

	return &Manager{
		cfg:      cfg,
		channel:  channel,
		handlers: handlers,
		logger:   logger.With("channel", channel),
		state:    StateConnecting,
	}
}

// Channel returns the channel name this manager is bound to.
func (m *Manager) Channel() string {
	return m.channel
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// URL returns the endpoint this manager dials.
func (m *Manager) URL() string {
	scheme := "ws"
	if m.cfg.Secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: m.cfg.Host, Path: "/ws/" + m.channel}
	return u.String()
}

// Connect starts a dial in the background and returns immediately.
// No-op once the manager has been torn down.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.tornDown {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	go m.dial()
}

// Send marshals v and writes it if the connection is currently open.
// Delivery is best-effort: while disconnected the frame is silently dropped.
func (m *Manager) Send(v any) {
	m.mu.Lock()
	conn := m.conn
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || conn == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		m.logger.Debug("dropping unmarshalable send", "error", err)
		return
	}
	m.write(conn, data)
}

// Teardown permanently stops the manager: cancels any pending reconnect
// timer and closes the connection. Idempotent; all callbacks still in
// flight become no-ops.
func (m *Manager) Teardown() {
	m.mu.Lock()
	if m.tornDown {
		m.mu.Unlock()
		return
	}
	m.tornDown = true
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
	}
}

// dial performs one connection attempt.
func (m *Manager) dial() {
	dialer := websocket.Dialer{
		HandshakeTimeout: m.cfg.HandshakeTimeout,
	}

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	conn, _, err := dialer.Dial(m.URL(), header)
	if err != nil {
		m.logger.Debug("dial failed", "error", err)
		m.handleClose(nil)
		return
	}

	m.mu.Lock()
	if m.tornDown {
		// Torn down while the dial was in flight.
		m.mu.Unlock()
		conn.Close()
		return
	}
	if m.conn != nil {
		m.conn.Close()
	}
	m.conn = conn
	m.attempt = 0
	changed := m.state != StateConnected
	m.state = StateConnected
	m.mu.Unlock()

	m.logger.Debug("connected", "url", m.URL())
	if changed && m.handlers.OnState != nil {
		m.handlers.OnState(StateConnected)
	}

	go m.readLoop(conn)
}

// readLoop reads frames until the connection dies, then hands the close to
// handleClose. Transport errors have no independent handling: the read
// error is the close event.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.handleClose(conn)
			return
		}
		m.handleFrame(conn, data)
	}
}

// handleFrame decodes one text frame. Malformed frames are dropped, pings
// are answered without surfacing, everything else goes to the consumer.
func (m *Manager) handleFrame(conn *websocket.Conn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		m.logger.Debug("dropping malformed frame", "error", err)
		return
	}

	if env.Type == "ping" {
		m.write(conn, pongFrame)
		return
	}

	if m.handlers.OnMessage != nil {
		m.handlers.OnMessage(Message{
			Type: env.Type,
			Raw:  append(json.RawMessage(nil), data...),
		})
	}
}

// handleClose is the single place reconnects are scheduled. A close for a
// connection that is no longer current schedules nothing, so one failure
// never books two timers. conn is nil when the dial itself failed.
func (m *Manager) handleClose(conn *websocket.Conn) {
	m.mu.Lock()
	if m.tornDown {
		m.mu.Unlock()
		return
	}
	if conn != nil {
		if m.conn != conn {
			m.mu.Unlock()
			return
		}
		conn.Close()
		m.conn = nil
	}

	changed := m.state != StateDisconnected
	m.state = StateDisconnected

	if m.retry != nil {
		m.retry.Stop()
	}
	delay := Backoff(m.attempt, m.cfg.BaseDelay, m.cfg.MaxDelay)
	attempt := m.attempt
	m.attempt++
	m.retry = time.AfterFunc(delay, m.Connect)
	m.mu.Unlock()

	m.logger.Debug("disconnected, reconnect scheduled",
		"attempt", attempt,
		"delay", delay,
	)
	if changed && m.handlers.OnState != nil {
		m.handlers.OnState(StateDisconnected)
	}
}

// write sends one text frame, serializing against concurrent pong replies.
// Write failures are not reported; the read loop observes the broken
// connection and drives the retry.
func (m *Manager) write(conn *websocket.Conn, data []byte) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		m.logger.Debug("write failed", "error", err)
	}
}
