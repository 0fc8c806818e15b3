package peer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ShareScheme prefixes links that point a board at a hub, e.g.
// localboard://192.168.1.20:8888.
const ShareScheme = "localboard://"

// HubURL turns a hub address (host:port, a share link, or a ws:// URL) into
// the websocket URL of a room.
func HubURL(addr, room string) (string, error) {
	addr = strings.TrimSuffix(strings.TrimPrefix(addr, ShareScheme), "/")
	if addr == "" {
		return "", errors.New("hub address cannot be empty")
	}
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid hub address %q: %w", addr, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid hub address %q: missing host", addr)
	}
	u.Path = "/rooms/" + url.PathEscape(room) + "/ws"
	return u.String(), nil
}

// WSBus is a client connection to a hub room. The hub relays every message
// to the other connections in the room, never back to the sender.
type WSBus struct {
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	deliver func([]byte)
	gen     int
	started bool
	closed  chan struct{}
}

// DialHub connects to a hub room.
func DialHub(ctx context.Context, hubURL string, logger *zap.Logger) (*WSBus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, hubURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to hub %s: %w", hubURL, err)
	}
	logger.Info("Connected to hub", zap.String("url", hubURL), zap.String("local", conn.LocalAddr().String()))
	return &WSBus{conn: conn, logger: logger, closed: make(chan struct{})}, nil
}

func (b *WSBus) Publish(_ context.Context, data []byte) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send to hub: %w", err)
	}
	return nil
}

func (b *WSBus) Subscribe(_ context.Context, deliver func([]byte)) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliver = deliver
	b.gen++
	if !b.started {
		b.started = true
		go b.readLoop()
	}
	return &wsSub{bus: b, gen: b.gen}, nil
}

// Done is closed when the hub connection drops.
func (b *WSBus) Done() <-chan struct{} {
	return b.closed
}

func (b *WSBus) readLoop() {
	defer close(b.closed)
	for {
		mt, p, err := b.conn.ReadMessage()
		if err != nil {
			b.logger.Info("Disconnected from hub", zap.Error(err))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		b.mu.Lock()
		deliver := b.deliver
		b.mu.Unlock()
		if deliver != nil {
			deliver(p)
		}
	}
}

// Close shuts the connection down.
func (b *WSBus) Close() error {
	b.writeMu.Lock()
	_ = b.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	b.writeMu.Unlock()
	return b.conn.Close()
}

type wsSub struct {
	bus  *WSBus
	gen  int
	once sync.Once
}

func (s *wsSub) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if s.bus.gen == s.gen {
			s.bus.deliver = nil
		}
		s.bus.mu.Unlock()
	})
	return nil
}
