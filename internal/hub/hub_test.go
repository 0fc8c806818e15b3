package hub

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"LocalBoard/internal/peer"
)

type inbox struct {
	mu   sync.Mutex
	msgs []string
}

func (i *inbox) add(p []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.msgs = append(i.msgs, string(p))
}

func (i *inbox) all() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.msgs...)
}

func dial(t *testing.T, srv *httptest.Server, room string) *peer.WSBus {
	url, err := peer.HubURL(strings.TrimPrefix(srv.URL, "http://"), room)
	require.NoError(t, err)
	bus, err := peer.DialHub(context.Background(), url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { bus.Close() })
	return bus
}

func TestRelayExcludesSender(t *testing.T) {
	h := New(nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	ctx := context.Background()
	a := dial(t, srv, "canvas")
	b := dial(t, srv, "canvas")
	other := dial(t, srv, "elsewhere")

	var inA, inB, inOther inbox
	_, err := a.Subscribe(ctx, inA.add)
	require.NoError(t, err)
	_, err = b.Subscribe(ctx, inB.add)
	require.NoError(t, err)
	_, err = other.Subscribe(ctx, inOther.add)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.Peers("canvas") == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Publish(ctx, []byte(`{"type":"sync-requested"}`)))

	require.Eventually(t, func() bool { return len(inB.all()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, `{"type":"sync-requested"}`, inB.all()[0])
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, inA.all())
	assert.Empty(t, inOther.all())
}

func TestRemoveOnDisconnect(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	h := New(nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	a := dial(t, srv, "canvas")
	_, err := a.Subscribe(context.Background(), func([]byte) {})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.Peers("canvas") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return h.Peers("canvas") == 0 }, time.Second, 10*time.Millisecond)
	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("read loop did not stop")
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(New(nil).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- New(nil).Serve(ctx, l) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}
