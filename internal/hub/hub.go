// Package hub relays sync messages between boards running in different
// processes. Each room is a set of websocket connections; a message from one
// connection is forwarded to every other connection in the same room.
package hub

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// Hub tracks the live connections of every room.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*conn]struct{}
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex // gorilla allows one concurrent writer
}

func (c *conn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func New(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger.Named("hub"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		rooms: make(map[string]map[*conn]struct{}),
	}
}

func (h *Hub) add(room string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*conn]struct{})
	}
	h.rooms[room][c] = struct{}{}
	h.logger.Info("Added connection", zap.String("room", room), zap.String("remote", c.ws.RemoteAddr().String()))
}

func (h *Hub) remove(room string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], c)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
	h.logger.Info("Removed connection", zap.String("room", room), zap.String("remote", c.ws.RemoteAddr().String()))
}

// Peers returns the number of connections in room.
func (h *Hub) Peers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast sends data to everyone in room except exclude.
func (h *Hub) Broadcast(room string, data []byte, exclude *conn) {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			h.logger.Warn("Error sending", zap.String("remote", c.ws.RemoteAddr().String()), zap.Error(err))
		}
	}
}

// Router returns the hub's HTTP routes with access logging.
func (h *Hub) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, w, req)
			h.logger.Debug("handled",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Duration("duration", m.Duration),
				zap.Int("status", m.Code))
		})
	})
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Methods(http.MethodGet).Path("/rooms/{room}/ws").HandlerFunc(h.serveRoom)
	return r
}

func (h *Hub) serveRoom(w http.ResponseWriter, req *http.Request) {
	room := mux.Vars(req)["room"]
	ws, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("Upgrade failed", zap.Error(err))
		return
	}
	c := &conn{ws: ws}
	h.add(room, c)
	defer ws.Close()
	defer h.remove(room, c)

	for {
		mt, p, err := ws.ReadMessage()
		if err != nil {
			h.logger.Debug("Client disconnected", zap.String("remote", ws.RemoteAddr().String()), zap.Error(err))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		h.Broadcast(room, p, c)
	}
}

// Serve runs the hub on l until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: h.Router(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(l)
	}()
	h.logger.Info("Hub listening", zap.String("addr", l.Addr().String()))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		h.closeAll()
		return nil
	}
}

// closeAll drops hijacked websocket connections, which Shutdown does not track.
func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, room := range h.rooms {
		for c := range room {
			_ = c.ws.Close()
		}
	}
}
