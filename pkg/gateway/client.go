// Package gateway owns the streaming channel to the assistant backend: the
// WebSocket lifecycle, the inbound event vocabulary and send-time
// availability guarantees.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pryce-dev/vantage/pkg/logger"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// CloseAuthRejected is the application close code the backend uses when the
// bearer credential is rejected mid-session.
const CloseAuthRejected = 4401

var (
	ErrNoToken      = errors.New("gateway: no credential available")
	ErrNotConnected = errors.New("gateway: not connected")
	ErrSendTimeout  = errors.New("gateway: timed out waiting for connection")
)

// Handler receives decoded inbound events and the end-of-session signal.
// Events are delivered one at a time, in arrival order, from a single
// goroutine. HandleDisconnect fires when the channel drops outside a
// deliberate Disconnect, letting the engine finalize an orphaned turn.
type Handler interface {
	HandleEvent(ev Event)
	HandleDisconnect(reason error)
}

type Config struct {
	// ServerURL accepts http(s) or ws(s) forms; http schemes are rewritten.
	ServerURL string

	HandshakeTimeout time.Duration

	// SendTimeout bounds how long Send waits for the channel to come up,
	// polling every SendPollInterval.
	SendTimeout      time.Duration
	SendPollInterval time.Duration

	// PingInterval spaces the keepalive pings. Zero disables them.
	PingInterval time.Duration
}

func DefaultConfig(serverURL string) Config {
	return Config{
		ServerURL:        serverURL,
		HandshakeTimeout: 10 * time.Second,
		SendTimeout:      5 * time.Second,
		SendPollInterval: 100 * time.Millisecond,
		PingInterval:     30 * time.Second,
	}
}

// Client manages one logical streaming channel. Redundant Connect calls
// never open a second channel, and after Disconnect the client holds no
// handler or turn state that could leak into a later session.
type Client struct {
	cfg    Config
	tokens TokenProvider
	policy ReconnectPolicy

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	handler  Handler
	convHint int64
	attempts int
	stopCh   chan struct{}

	writeMu sync.Mutex
}

func NewClient(cfg Config, tokens TokenProvider, policy ReconnectPolicy) *Client {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	if cfg.SendPollInterval == 0 {
		cfg.SendPollInterval = 100 * time.Millisecond
	}
	return &Client{cfg: cfg, tokens: tokens, policy: policy}
}

// SetHandler registers the event consumer. Must be called before Connect.
func (c *Client) SetHandler(h Handler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// SetConversationHint records a known conversation id to present at the next
// handshake so the server resumes instead of creating a fresh conversation.
func (c *Client) SetConversationHint(id int64) {
	c.mu.Lock()
	c.convHint = id
	c.mu.Unlock()
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Connect opens the channel. It is a no-op when already connected or mid
// connect. Failure to acquire a credential fails fast without dialing.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	hint := c.convHint
	c.mu.Unlock()

	token, err := c.tokens.Token(ctx)
	if err == nil && token == "" {
		err = ErrNoToken
	}
	if err != nil {
		c.setState(StateDisconnected)
		logger.Error("Connect aborted, no credential: %v", err)
		return fmt.Errorf("acquire token: %w", err)
	}

	endpoint, err := c.endpoint(token, hint)
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("build endpoint: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		c.setState(StateDisconnected)
		logger.Error("Dial failed: %v", err)
		return fmt.Errorf("dial %s: %w", c.cfg.ServerURL, err)
	}

	stop := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.state = StateConnected
	c.attempts = 0
	c.stopCh = stop
	c.mu.Unlock()

	go c.readLoop(conn, stop)
	if c.cfg.PingInterval > 0 {
		go c.pingLoop(conn, stop)
	}

	logger.Info("Connected to %s", c.cfg.ServerURL)
	return nil
}

// Disconnect closes the channel and clears the handler registration so no
// stale turn state survives into a later session.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateClosing
	conn := c.conn
	stop := c.stopCh
	c.conn = nil
	c.stopCh = nil
	c.handler = nil
	c.convHint = 0
	c.attempts = 0
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		_ = conn.Close()
	}

	c.setState(StateDisconnected)
	logger.Info("Disconnected")
}

// Send transmits a user message. When the channel is not yet up it waits up
// to SendTimeout, polling at SendPollInterval; past the bound it gives up
// with ErrSendTimeout. Callers surface send failures to logs only, never as
// conversation content.
func (c *Client) Send(ctx context.Context, text string, conversationID int64) error {
	deadline := time.Now().Add(c.cfg.SendTimeout)
	for !c.IsConnected() {
		if time.Now().After(deadline) {
			logger.Warn("Send timed out after %s waiting for connection", c.cfg.SendTimeout)
			return ErrSendTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.SendPollInterval):
		}
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	out := outboundMessage{Type: "message", Content: text, ConversationID: conversationID}
	c.writeMu.Lock()
	err := conn.WriteJSON(out)
	c.writeMu.Unlock()
	if err != nil {
		logger.Error("Send failed: %v", err)
		return fmt.Errorf("send message: %w", err)
	}

	logger.Debug("Sent message (%d bytes, conversation %d)", len(text), conversationID)
	return nil
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// endpoint rewrites the configured URL to a ws(s) scheme and attaches the
// handshake parameters as query values.
func (c *Client) endpoint(token string, convHint int64) (string, error) {
	raw := c.cfg.ServerURL
	raw = strings.Replace(raw, "http://", "ws://", 1)
	raw = strings.Replace(raw, "https://", "wss://", 1)

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws/chat"
	}

	q := u.Query()
	q.Set("token", token)
	if convHint != 0 {
		q.Set("conversation_id", strconv.FormatInt(convHint, 10))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) currentHandler() Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

func (c *Client) readLoop(conn *websocket.Conn, stop chan struct{}) {
	var reason error
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			reason = err
			break
		}

		ev, err := DecodeEvent(raw)
		if err != nil {
			logger.Warn("Skipping frame: %v", err)
			continue
		}
		if _, ok := ev.(Pong); ok {
			continue
		}

		if h := c.currentHandler(); h != nil {
			h.HandleEvent(ev)
		}
	}

	c.mu.Lock()
	deliberate := c.state == StateClosing
	if c.conn == conn {
		c.conn = nil
		c.state = StateDisconnected
	}
	h := c.handler
	c.mu.Unlock()

	select {
	case <-stop:
		deliberate = true
	default:
	}
	if deliberate {
		return
	}

	logger.Warn("Connection lost: %v", reason)
	if h != nil {
		h.HandleDisconnect(reason)
	}

	if isTerminalClose(reason) {
		logger.Error("Close reason is terminal, not reconnecting: %v", reason)
		return
	}
	c.scheduleReconnect()
}

func (c *Client) pingLoop(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteJSON(outboundPing{Type: "ping"})
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// isTerminalClose reports whether the close reason forbids any reconnect:
// rejected credentials and protocol violations are not recoverable by
// redialing.
func isTerminalClose(err error) bool {
	var ce *websocket.CloseError
	if !errors.As(err, &ce) {
		return false
	}
	switch ce.Code {
	case CloseAuthRejected,
		websocket.CloseProtocolError,
		websocket.CloseUnsupportedData,
		websocket.ClosePolicyViolation:
		return true
	}
	return false
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	delay, ok := c.policy.Delay(attempt)
	if !ok {
		if c.policy.Enabled() {
			logger.Warn("Reconnect attempts exhausted after %d tries", attempt-1)
		}
		return
	}

	logger.Info("Reconnecting in %s (attempt %d/%d)", delay, attempt, c.policy.MaxAttempts)
	go func() {
		time.Sleep(delay)
		if err := c.Connect(context.Background()); err != nil {
			c.scheduleReconnect()
		}
	}()
}
