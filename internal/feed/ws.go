package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"fx-backtest-lab/internal/domain"
)

// TickStreamConfig configures websocket tick capture behavior.
type TickStreamConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultTickStreamConfig returns default tick stream configuration.
func DefaultTickStreamConfig() TickStreamConfig {
	return TickStreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// TickStream captures quote ticks for one symbol over a websocket feed.
type TickStream struct {
	endpoint string
	symbol   string
	config   TickStreamConfig
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	ticks chan domain.Tick

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewTickStream connects to the endpoint and starts capturing ticks for symbol.
func NewTickStream(ctx context.Context, endpoint, symbol string, config *TickStreamConfig) (*TickStream, error) {
	cfg := DefaultTickStreamConfig()
	if config != nil {
		cfg = *config
	}

	s := &TickStream{
		endpoint: endpoint,
		symbol:   symbol,
		config:   cfg,
		logger:   log.New(os.Stdout, "[feed] ", log.LstdFlags),
		// Blocking send ensures no tick loss; buffer absorbs burst
		ticks: make(chan domain.Tick, 10000),
		done:  make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	if err := s.subscribe(); err != nil {
		s.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

// Ticks returns the channel of captured ticks. Closed on shutdown.
func (s *TickStream) Ticks() <-chan domain.Tick {
	return s.ticks
}

// connect establishes the websocket connection.
func (s *TickStream) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// subscribe sends the symbol subscription request.
func (s *TickStream) subscribe() error {
	req := tickSubscribeRequest{
		Op:      "subscribe",
		Channel: "ticks",
		Symbol:  s.symbol,
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// Close closes the websocket connection and the tick channel.
func (s *TickStream) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.ticks)
	return nil
}

// readLoop reads tick messages and dispatches them to the tick channel.
func (s *TickStream) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			if !s.reconnecting.Swap(true) {
				go s.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}

			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = s.config.ReconnectDelay

		s.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (s *TickStream) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}

	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	if err := s.subscribe(); err != nil {
		s.logger.Printf("resubscribe failed: %v", err)
	}
}

// handleMessage parses a tick message and forwards it.
func (s *TickStream) handleMessage(message []byte) {
	var msg tickMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		s.logger.Printf("unparseable message: %v", err)
		return
	}
	if msg.Symbol != "" && msg.Symbol != s.symbol {
		return
	}
	if msg.Price <= 0 {
		return
	}

	tick := domain.Tick{
		TimestampMs: msg.TimestampMs,
		Price:       msg.Price,
		Volume:      msg.Volume,
	}

	// Block until we can send - never drop ticks
	select {
	case s.ticks <- tick:
	case <-s.done:
	}
}

// pingLoop sends periodic ping frames to keep connection alive.
func (s *TickStream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Reader will notice the dead connection and reconnect.
					s.logger.Printf("ping failed: %v", err)
				}
			}
			s.connMu.Unlock()
		}
	}
}

// Websocket message types

type tickSubscribeRequest struct {
	Op      string `json:"op"`
	Channel string `json:"channel"`
	Symbol  string `json:"symbol"`
}

type tickMessage struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	Volume      float64 `json:"volume"`
	TimestampMs int64   `json:"timestamp_ms"`
}
