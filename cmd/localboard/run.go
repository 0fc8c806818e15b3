package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"LocalBoard/internal/board"
	"LocalBoard/internal/discovery"
	"LocalBoard/internal/notes"
	"LocalBoard/internal/peer"
	"LocalBoard/internal/store"
	"LocalBoard/internal/ui"
)

var (
	syncOnStart bool
	discover    bool
)

// runCmd opens a board window
var runCmd = &cobra.Command{
	Use:   "run [localboard://host:port]",
	Short: "Open a drawing board",
	Long: `Opens a board window backed by the configured store.

Passing a share link joins the hub behind it over WebSocket. Otherwise the
transport comes from the sync section of the configuration.

Example:
  localboard run localboard://192.168.1.20:8888 --sync`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBoard,
}

func init() {
	runCmd.Flags().BoolVar(&syncOnStart, "sync", false, "Enable live sync as soon as the board opens")
	runCmd.Flags().BoolVar(&discover, "discover", false, "Look for a hub on the local network")
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 1 {
		if !strings.HasPrefix(args[0], peer.ShareScheme) {
			return fmt.Errorf("expected a %s link, got %q", peer.ShareScheme, args[0])
		}
		cfg.Sync.Transport = "websocket"
		cfg.Sync.HubAddr = args[0]
	}
	if discover {
		cfg.Sync.Transport = "websocket"
		cfg.Sync.Discover = true
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	c := newController(st)
	c.Load(ctx)

	conn, err := openBus(ctx)
	if err != nil {
		return err
	}
	defer conn.close()

	ch := peer.NewChannel(conn.bus, c, logger)
	defer ch.Close()
	c.Attach(ch)
	if err := ch.Open(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", cfg.Sync.Channel, err)
	}
	if conn.unavailable != "" {
		logger.Warn(conn.unavailable, zap.String("transport", "local"))
	} else if cfg.Sync.Enabled || syncOnStart {
		if err := ch.Enable(ctx); err != nil {
			return fmt.Errorf("failed to enable sync: %w", err)
		}
	}
	logger.Info("Board ready",
		zap.String("transport", cfg.Sync.Transport),
		zap.String("channel", cfg.Sync.Channel),
		zap.Stringer("sync", ch.State()))

	ui.RunApp(c, ui.Options{
		Width:     float32(cfg.Board.Width),
		Height:    float32(cfg.Board.Height),
		ShareBase: conn.share,
		Sync:      ch,
		Done:      conn.done,
		Notes:     notes.Open(ctx, st, logger),
		Logger:    logger,

		SyncUnavailable: conn.unavailable,
	})
	return nil
}

func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, store.Options{
		Backend:   cfg.Storage.Backend,
		Path:      cfg.Storage.Path,
		RedisAddr: cfg.Storage.RedisAddr,
		Namespace: cfg.Storage.Namespace,
	})
}

func newController(st store.Store) *board.Controller {
	return board.New(st, board.Options{
		Width:       cfg.Board.Width,
		Height:      cfg.Board.Height,
		Color:       cfg.Board.Color,
		StrokeWidth: cfg.Board.StrokeWidth,
		Logger:      logger,
	})
}

const syncUnavailable = "Live sync needs a hub or redis"

// busConn is an opened sync transport.
type busConn struct {
	bus         peer.Bus
	share       string
	done        <-chan struct{}
	unavailable string // set when no other device can be reached
	close       func()
}

func openBus(ctx context.Context) (*busConn, error) {
	room := cfg.Sync.Channel
	switch cfg.Sync.Transport {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Sync.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Sync.RedisAddr, err)
		}
		return &busConn{
			bus:   peer.NewRedisBus(rdb, room),
			close: func() { rdb.Close() },
		}, nil

	case "websocket":
		addr := cfg.Sync.HubAddr
		if addr == "" && cfg.Sync.Discover {
			hubs, err := discovery.Browse(ctx, 3*time.Second)
			if err != nil {
				return nil, err
			}
			if len(hubs) == 0 {
				return nil, fmt.Errorf("no hub found on the local network")
			}
			addr = hubs[0]
			logger.Info("Discovered hub", zap.String("addr", addr), zap.Int("found", len(hubs)))
		}
		if addr == "" {
			return nil, fmt.Errorf("no hub address configured")
		}
		return dialHub(ctx, addr, room)

	default:
		// A hub announced on the network is the only way the local transport
		// reaches another device.
		if hubs, err := discovery.Browse(ctx, time.Second); err != nil {
			logger.Debug("Hub discovery failed", zap.Error(err))
		} else if len(hubs) > 0 {
			conn, err := dialHub(ctx, hubs[0], room)
			if err == nil {
				logger.Info("Joined hub found on the local network", zap.String("addr", hubs[0]))
				return conn, nil
			}
			logger.Warn("Could not join discovered hub", zap.String("addr", hubs[0]), zap.Error(err))
		}
		return localBus(room), nil
	}
}

// localBus stays inside this process, so live sync has nobody to talk to.
func localBus(room string) *busConn {
	return &busConn{
		bus:         peer.NewLocalBus().Room(room),
		unavailable: syncUnavailable,
		close:       func() {},
	}
}

func dialHub(ctx context.Context, addr, room string) (*busConn, error) {
	u, err := peer.HubURL(addr, room)
	if err != nil {
		return nil, err
	}
	bus, err := peer.DialHub(ctx, u, logger)
	if err != nil {
		return nil, err
	}
	share := addr
	if !strings.Contains(addr, "://") {
		share = peer.ShareScheme + addr
	}
	return &busConn{
		bus:   bus,
		share: share,
		done:  bus.Done(),
		close: func() { bus.Close() },
	}, nil
}
