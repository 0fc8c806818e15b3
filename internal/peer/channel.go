package peer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the emission state of a Channel.
type State int

const (
	Disabled State = iota
	Enabled
)

func (s State) String() string {
	if s == Enabled {
		return "enabled"
	}
	return "disabled"
}

// Handler applies inbound events. Every event is handed over whole; the
// handler is expected to apply it to completion before returning.
type Handler interface {
	HandleEvent(ctx context.Context, ev Event)
}

// Channel runs the sync protocol for one board instance over a Bus.
// Once subscribed it accepts inbound events in either state, but it only
// emits while Enabled.
type Channel struct {
	bus     Bus
	id      string
	handler Handler
	logger  *zap.Logger

	mu    sync.Mutex
	state State
	sub   Subscription
}

// NewChannel creates a disabled, unsubscribed channel with a fresh origin id.
func NewChannel(bus Bus, handler Handler, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Channel{
		bus:     bus,
		id:      id,
		handler: handler,
		logger:  logger.Named("peer").With(zap.String("origin", id)),
	}
}

// ID is the origin stamped on outgoing messages.
func (c *Channel) ID() string {
	return c.id
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open subscribes to inbound events without enabling emission.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribeLocked(ctx)
}

func (c *Channel) subscribeLocked(ctx context.Context) error {
	if c.sub != nil {
		return nil
	}
	sub, err := c.bus.Subscribe(ctx, c.receive)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	c.sub = sub
	return nil
}

// Enable subscribes if needed, switches to Enabled and asks peers for their
// history.
func (c *Channel) Enable(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Enabled {
		c.mu.Unlock()
		return nil
	}
	if err := c.subscribeLocked(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Enabled
	c.mu.Unlock()

	c.logger.Info("Live sync enabled")
	c.Emit(ctx, SyncRequested())
	return nil
}

// Disable unsubscribes and turns emission off.
// The subscription is closed outside the lock: closing waits for in-flight
// deliveries, which may call Emit.
func (c *Channel) Disable() error {
	c.mu.Lock()
	c.state = Disabled
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub == nil {
		return nil
	}
	c.logger.Info("Live sync disabled")
	return sub.Close()
}

// Close is Disable; it lets a Channel be used as an io.Closer.
func (c *Channel) Close() error {
	return c.Disable()
}

// Emit publishes ev to peers. It is a no-op while Disabled. Transport errors
// are logged and dropped.
func (c *Channel) Emit(ctx context.Context, ev Event) {
	if c.State() != Enabled {
		return
	}
	data, err := Encode(c.id, ev)
	if err != nil {
		c.logger.Warn("Dropping unencodable sync event", zap.String("type", string(ev.Kind)), zap.Error(err))
		return
	}
	if err := c.bus.Publish(ctx, data); err != nil {
		c.logger.Warn("Failed to publish sync event", zap.String("type", string(ev.Kind)), zap.Error(err))
		return
	}
	c.logger.Debug("Sent sync event", zap.String("type", string(ev.Kind)))
}

func (c *Channel) receive(data []byte) {
	origin, ev, err := Decode(data)
	if err != nil {
		c.logger.Debug("Ignoring sync message", zap.Error(err))
		return
	}
	if origin == c.id {
		return
	}
	c.logger.Debug("Received sync event", zap.String("type", string(ev.Kind)), zap.String("from", origin))
	if c.handler != nil {
		c.handler.HandleEvent(context.Background(), ev)
	}
}
