package peer

import (
	"context"
	"sync"
)

// Bus is a fan-out publish/subscribe transport scoped to one channel name.
// Implementations may deliver a message back to its sender; Channel filters
// those by origin.
type Bus interface {
	Publish(ctx context.Context, data []byte) error
	Subscribe(ctx context.Context, deliver func([]byte)) (Subscription, error)
}

// Subscription stops delivery when closed.
type Subscription interface {
	Close() error
}

// LocalBus connects board instances inside one process, keyed by room name.
// Delivery is synchronous on the publisher's goroutine.
type LocalBus struct {
	mu    sync.RWMutex
	rooms map[string]map[*localSub]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{rooms: make(map[string]map[*localSub]struct{})}
}

// Room returns a Bus bound to name.
func (b *LocalBus) Room(name string) Bus {
	return &localRoom{bus: b, name: name}
}

type localRoom struct {
	bus  *LocalBus
	name string
}

type localSub struct {
	room    *localRoom
	deliver func([]byte)
	once    sync.Once
}

func (r *localRoom) Publish(_ context.Context, data []byte) error {
	r.bus.mu.RLock()
	subs := make([]*localSub, 0, len(r.bus.rooms[r.name]))
	for s := range r.bus.rooms[r.name] {
		subs = append(subs, s)
	}
	r.bus.mu.RUnlock()

	for _, s := range subs {
		s.deliver(append([]byte(nil), data...))
	}
	return nil
}

func (r *localRoom) Subscribe(_ context.Context, deliver func([]byte)) (Subscription, error) {
	s := &localSub{room: r, deliver: deliver}
	r.bus.mu.Lock()
	defer r.bus.mu.Unlock()
	if r.bus.rooms[r.name] == nil {
		r.bus.rooms[r.name] = make(map[*localSub]struct{})
	}
	r.bus.rooms[r.name][s] = struct{}{}
	return s, nil
}

func (s *localSub) Close() error {
	s.once.Do(func() {
		b := s.room.bus
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.rooms[s.room.name], s)
		if len(b.rooms[s.room.name]) == 0 {
			delete(b.rooms, s.room.name)
		}
	})
	return nil
}
