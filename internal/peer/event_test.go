package peer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/stroke"
)

var sample = stroke.Stroke{ID: "s1", Color: "#ff0000", Width: 3, Points: []stroke.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}}

func TestEncodeWireShape(t *testing.T) {
	data, err := Encode("me", StrokeAdded(sample))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "stroke-added", raw["type"])
	assert.Equal(t, "me", raw["origin"])
	payload := raw["payload"].(map[string]any)
	assert.Equal(t, "#ff0000", payload["color"])
	assert.Equal(t, 3.0, payload["size"])

	data, err = Encode("me", UndoPerformed())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"undo-performed","origin":"me"}`, string(data))

	data, err = Encode("me", HistoryReplaced(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"history-replaced","payload":[],"origin":"me"}`, string(data))

	_, err = Encode("me", Event{Kind: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecode(t *testing.T) {
	t.Run("every kind survives the wire", func(t *testing.T) {
		events := []Event{
			StrokeAdded(sample),
			HistoryCleared(),
			UndoPerformed(),
			HistoryReplaced([]stroke.Stroke{sample}),
			SyncRequested(),
		}
		for _, ev := range events {
			data, err := Encode("peer-a", ev)
			require.NoError(t, err)
			origin, got, err := Decode(data)
			require.NoError(t, err, ev.Kind)
			assert.Equal(t, "peer-a", origin)
			assert.Equal(t, ev, got)
		}
	})

	bad := map[string]struct {
		input string
		want  error
	}{
		"not json":           {`{oops`, ErrMalformed},
		"missing type":       {`{"payload":{}}`, ErrMalformed},
		"unknown type":       {`{"type":"frame"}`, ErrUnknownKind},
		"stroke no payload":  {`{"type":"stroke-added"}`, ErrMalformed},
		"stroke no points":   {`{"type":"stroke-added","payload":{"color":"red","size":2,"points":[]}}`, ErrMalformed},
		"history not a list": {`{"type":"history-replaced","payload":{"a":1}}`, ErrMalformed},
		"history null":       {`{"type":"history-replaced","payload":null}`, ErrMalformed},
	}
	for name, tc := range bad {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode([]byte(tc.input))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestHubURL(t *testing.T) {
	cases := map[string]string{
		"192.168.1.5:8888":               "ws://192.168.1.5:8888/rooms/canvas/ws",
		"localboard://192.168.1.5:8888/": "ws://192.168.1.5:8888/rooms/canvas/ws",
		"wss://board.example.com":        "wss://board.example.com/rooms/canvas/ws",
	}
	for in, want := range cases {
		got, err := HubURL(in, "canvas")
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := HubURL("", "canvas")
	assert.Error(t, err)
	_, err = HubURL("localboard://", "canvas")
	assert.Error(t, err)
}
