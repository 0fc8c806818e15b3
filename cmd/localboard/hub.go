package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"LocalBoard/internal/discovery"
	"LocalBoard/internal/hub"
	"LocalBoard/internal/peer"
)

var (
	hubAddr     string
	noAdvertise bool
)

// hubCmd runs the relay other boards join
var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Run a sync hub on the local network",
	Long: `Starts a WebSocket relay. Every board connected to the same room receives
the strokes the others draw. The hub is announced over mDNS unless
--no-advertise is given.`,
	Args: cobra.NoArgs,
	RunE: runHub,
}

func init() {
	hubCmd.Flags().StringVar(&hubAddr, "addr", "", "Listen address (default from config)")
	hubCmd.Flags().BoolVar(&noAdvertise, "no-advertise", false, "Do not announce the hub over mDNS")
}

func runHub(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Hub.Addr
	if hubAddr != "" {
		addr = hubAddr
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start hub: %w", err)
	}
	port := l.Addr().(*net.TCPAddr).Port

	if cfg.Hub.Advertise && !noAdvertise {
		server, err := discovery.Advertise(port, cfg.Sync.Channel)
		if err != nil {
			logger.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer server.Shutdown()
		}
	}

	link := fmt.Sprintf("%s%s:%d", peer.ShareScheme, discovery.OutgoingIP(), port)
	logger.Info("Hub share link", zap.String("link", link))
	fmt.Fprintln(cmd.OutOrStdout(), "Share this link:", link)

	return hub.New(logger).Serve(ctx, l)
}
