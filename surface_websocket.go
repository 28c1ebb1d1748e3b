package gotween

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// SurfaceState represents the current state of the feed connection
type SurfaceState int32

const (
	SurfaceStateDisconnected SurfaceState = iota
	SurfaceStateConnecting
	SurfaceStateConnected
	SurfaceStateReconnecting
)

func (s SurfaceState) String() string {
	switch s {
	case SurfaceStateDisconnected:
		return "disconnected"
	case SurfaceStateConnecting:
		return "connecting"
	case SurfaceStateConnected:
		return "connected"
	case SurfaceStateReconnecting:
		return "reconnecting"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// SurfaceErrorCategory represents the type of error that occurred
type SurfaceErrorCategory int

const (
	SurfaceErrorNetwork SurfaceErrorCategory = iota
	SurfaceErrorAuth
	SurfaceErrorProtocol
	SurfaceErrorTimeout
	SurfaceErrorUnknown
)

// SurfaceStateCallback is called when the connection state changes
type SurfaceStateCallback func(oldState, newState SurfaceState, err error)

// SurfaceWebSocket streams display updates to a browser dashboard over a
// durable WebSocket connection. Each update is written as one JSON text
// message; the page applies it to the matching counter element.
//
// Features:
// - Automatic reconnection with exponential backoff
// - Connection health monitoring with ping/pong
// - Circuit breaker to prevent connection storms
// - Error categorization (auth errors are terminal, others retry)
// - Connection state callbacks for monitoring
//
// Updates written while the feed is disconnected are dropped rather than
// queued: the next animation frame recomputes its value from wall-clock
// time, so the display catches up on its own once the feed is back.
//
// Example:
//
//	feed := &gotween.SurfaceWebSocket{
//	    URL: "ws://localhost:8080/feed",
//	    OnStateChange: func(old, new gotween.SurfaceState, err error) {
//	        log.Printf("feed state: %s -> %s", old, new)
//	    },
//	}
//	err := feed.Initialize()
//	// ...
//	defer feed.Close()
type SurfaceWebSocket struct {
	// URL to connect to (e.g. "ws://localhost:8080/feed")
	URL string

	// Optional HTTP headers to send during the WebSocket handshake
	Headers map[string]string

	// Reconnection configuration (optional, uses defaults if not set)
	InitialRetryPeriod   time.Duration // Default: 1s
	MaxRetryPeriod       time.Duration // Default: 30s
	BackoffMultiplier    float64       // Default: 1.5
	MaxReconnectAttempts int           // Default: 0 (unlimited)

	// Connection timeouts (optional, uses defaults if not set)
	HandshakeTimeout time.Duration // Default: 5s
	PingPeriod       time.Duration // Default: 30s
	PongWait         time.Duration // Default: 120s

	// Circuit breaker configuration
	MaxConsecutiveErrors  int           // Default: 10
	CircuitBreakerTimeout time.Duration // Default: 5 minutes

	// State change callback (optional)
	OnStateChange SurfaceStateCallback

	// NetDialContext specifies a custom dial function for creating TCP
	// connections. If nil, the default dialer is used.
	NetDialContext func(ctx context.Context, network, addr string) (net.Conn, error)

	ctx       context.Context
	cancel    context.CancelFunc
	terminate chan struct{}

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	state   SurfaceState
	closed  bool

	// Reconnection state
	reconnectAttempts    int32
	consecutiveErrors    int32
	currentRetryPeriod   time.Duration
	lastConnectTime      time.Time
	lastErrorTime        time.Time
	circuitBreakerOpenAt time.Time

	// Statistics
	updatesWritten int64
	updatesDropped int64
	writeErrors    int64
	bytesWritten   int64
}

// Initialize validates the configuration and starts the connection manager
// in the background. WriteUpdate may be called immediately; updates written
// before the first connection completes are dropped.
func (s *SurfaceWebSocket) Initialize() error {
	if s.URL == "" {
		return fmt.Errorf("%w: feed URL is required", ErrInvalidInput)
	}
	if _, err := url.Parse(s.URL); err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}

	// Set defaults
	if s.InitialRetryPeriod == 0 {
		s.InitialRetryPeriod = 1 * time.Second
	}
	if s.MaxRetryPeriod == 0 {
		s.MaxRetryPeriod = 30 * time.Second
	}
	if s.BackoffMultiplier == 0 {
		s.BackoffMultiplier = 1.5
	}
	if s.HandshakeTimeout == 0 {
		s.HandshakeTimeout = 5 * time.Second
	}
	if s.PingPeriod == 0 {
		s.PingPeriod = 30 * time.Second
	}
	if s.PongWait == 0 {
		s.PongWait = 120 * time.Second
	}
	if s.MaxConsecutiveErrors == 0 {
		s.MaxConsecutiveErrors = 10
	}
	if s.CircuitBreakerTimeout == 0 {
		s.CircuitBreakerTimeout = 5 * time.Minute
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.terminate = make(chan struct{})
	s.currentRetryPeriod = s.InitialRetryPeriod
	s.setState(SurfaceStateDisconnected, nil)

	go s.run()
	return nil
}

// WriteUpdate marshals the update and writes it as a JSON text message. A
// write while disconnected is dropped and returns nil.
func (s *SurfaceWebSocket) WriteUpdate(u Update) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		atomic.AddInt64(&s.updatesDropped, 1)
		return nil
	}

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	s.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	s.writeMu.Unlock()
	if err != nil {
		atomic.AddInt64(&s.writeErrors, 1)
		return err
	}

	atomic.AddInt64(&s.updatesWritten, 1)
	atomic.AddInt64(&s.bytesWritten, int64(len(data)))
	return nil
}

// Close terminates the feed. It is safe to call more than once.
func (s *SurfaceWebSocket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	s.cancel()
	close(s.terminate)

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}
	return nil
}

// State returns the current connection state
func (s *SurfaceWebSocket) State() SurfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsHealthy returns true if the feed is currently connected
func (s *SurfaceWebSocket) IsHealthy() bool {
	return s.State() == SurfaceStateConnected
}

// Stats returns feed statistics
func (s *SurfaceWebSocket) Stats() map[string]interface{} {
	s.mu.Lock()
	lastConnect := s.lastConnectTime
	lastError := s.lastErrorTime
	retryPeriod := s.currentRetryPeriod
	s.mu.Unlock()

	return map[string]interface{}{
		"state":                s.State().String(),
		"reconnect_attempts":   atomic.LoadInt32(&s.reconnectAttempts),
		"consecutive_errors":   atomic.LoadInt32(&s.consecutiveErrors),
		"updates_written":      atomic.LoadInt64(&s.updatesWritten),
		"updates_dropped":      atomic.LoadInt64(&s.updatesDropped),
		"write_errors":         atomic.LoadInt64(&s.writeErrors),
		"bytes_written":        atomic.LoadInt64(&s.bytesWritten),
		"last_connect_time":    lastConnect,
		"last_error_time":      lastError,
		"circuit_breaker_open": s.isCircuitBreakerOpen(),
		"current_retry_period": retryPeriod,
	}
}

func (s *SurfaceWebSocket) setState(newState SurfaceState, err error) {
	s.mu.Lock()
	oldState := s.state
	s.state = newState
	callback := s.OnStateChange
	s.mu.Unlock()

	if callback != nil && oldState != newState {
		callback(oldState, newState, err)
	}
}

func (s *SurfaceWebSocket) isCircuitBreakerOpen() bool {
	s.mu.Lock()
	openedAt := s.circuitBreakerOpenAt
	s.mu.Unlock()
	if openedAt.IsZero() {
		return false
	}
	return time.Since(openedAt) < s.CircuitBreakerTimeout
}

func (s *SurfaceWebSocket) openCircuitBreaker() {
	s.mu.Lock()
	s.circuitBreakerOpenAt = time.Now()
	s.mu.Unlock()
}

func (s *SurfaceWebSocket) closeCircuitBreaker() {
	s.mu.Lock()
	s.circuitBreakerOpenAt = time.Time{}
	s.mu.Unlock()
}

func (s *SurfaceWebSocket) categorizeError(err error) SurfaceErrorCategory {
	if err == nil {
		return SurfaceErrorUnknown
	}

	errStr := err.Error()

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return SurfaceErrorTimeout
		}
		return SurfaceErrorNetwork
	}

	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived) {
		return SurfaceErrorNetwork
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "forbidden") {
		return SurfaceErrorAuth
	}

	if strings.Contains(errStr, "protocol") || strings.Contains(errStr, "handshake") {
		return SurfaceErrorProtocol
	}

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline") {
		return SurfaceErrorTimeout
	}

	return SurfaceErrorUnknown
}

func (s *SurfaceWebSocket) shouldRetry(err error) (bool, time.Duration) {
	category := s.categorizeError(err)

	// Don't retry auth errors
	if category == SurfaceErrorAuth {
		return false, 0
	}

	if s.isCircuitBreakerOpen() {
		s.mu.Lock()
		openedAt := s.circuitBreakerOpenAt
		s.mu.Unlock()
		return false, s.CircuitBreakerTimeout - time.Since(openedAt)
	}

	consecutiveErrors := atomic.LoadInt32(&s.consecutiveErrors)
	if int(consecutiveErrors) >= s.MaxConsecutiveErrors {
		s.openCircuitBreaker()
		return false, s.CircuitBreakerTimeout
	}

	attempts := atomic.LoadInt32(&s.reconnectAttempts)
	if s.MaxReconnectAttempts > 0 && int(attempts) >= s.MaxReconnectAttempts {
		return false, 0
	}

	return true, s.currentRetryPeriod
}

// run is the connection manager: it dials, supervises the live connection,
// and reconnects with backoff until the surface is closed or an error is
// terminal.
func (s *SurfaceWebSocket) run() {
	for {
		select {
		case <-s.terminate:
			return
		default:
		}

		attempts := atomic.LoadInt32(&s.reconnectAttempts)
		if attempts > 0 {
			s.setState(SurfaceStateReconnecting, nil)

			select {
			case <-time.After(s.currentRetryPeriod):
			case <-s.terminate:
				return
			}

			nextPeriod := time.Duration(float64(s.currentRetryPeriod) * s.BackoffMultiplier)
			s.mu.Lock()
			s.currentRetryPeriod = min(nextPeriod, s.MaxRetryPeriod)
			s.mu.Unlock()
		} else {
			s.setState(SurfaceStateConnecting, nil)
		}

		atomic.AddInt32(&s.reconnectAttempts, 1)

		conn, err := s.connect()
		if err != nil {
			s.mu.Lock()
			s.lastErrorTime = time.Now()
			s.mu.Unlock()
			atomic.AddInt32(&s.consecutiveErrors, 1)

			shouldRetry, retryAfter := s.shouldRetry(err)
			if !shouldRetry {
				// Terminal: stay disconnected until the surface is closed.
				s.setState(SurfaceStateDisconnected, err)
				<-s.terminate
				return
			}

			s.mu.Lock()
			s.currentRetryPeriod = retryAfter
			s.mu.Unlock()
			continue
		}

		// Connection successful - reset error counters
		atomic.StoreInt32(&s.consecutiveErrors, 0)
		s.mu.Lock()
		s.currentRetryPeriod = s.InitialRetryPeriod
		s.lastConnectTime = time.Now()
		s.conn = conn
		s.mu.Unlock()
		s.closeCircuitBreaker()
		s.setState(SurfaceStateConnected, nil)

		err = s.supervise(conn)

		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()

		select {
		case <-s.terminate:
			conn.Close()
			return
		default:
		}

		s.setState(SurfaceStateDisconnected, err)
		conn.Close()
	}
}

func (s *SurfaceWebSocket) connect() (*websocket.Conn, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: s.HandshakeTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		NetDialContext:   s.NetDialContext,
	}

	headers := make(http.Header)
	for k, v := range s.Headers {
		headers.Set(k, v)
	}

	conn, resp, err := dialer.DialContext(s.ctx, s.URL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("feed rejected connection: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("failed to connect to feed: %w", err)
	}

	return conn, nil
}

// supervise blocks until the connection dies or the surface is closed. The
// reader drains inbound frames so control messages are processed; the feed
// itself is write-only.
func (s *SurfaceWebSocket) supervise(conn *websocket.Conn) error {
	dead := make(chan error, 2)

	go func() {
		conn.SetReadDeadline(time.Now().Add(s.PongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(s.PongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				dead <- err
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(s.PingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				err := conn.WriteControl(websocket.PingMessage, []byte{},
					time.Now().Add(10*time.Second))
				if err != nil {
					dead <- err
					return
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()

	select {
	case err := <-dead:
		return err
	case <-s.terminate:
		return nil
	}
}
