package export

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/stroke"
	"LocalBoard/internal/surface"
)

func TestShareLinkRoundTrip(t *testing.T) {
	r := surface.New(20, 20, 1)
	r.Draw(stroke.Stroke{Color: "red", Width: 3, Points: []stroke.Point{{X: 2, Y: 2}, {X: 18, Y: 18}}})
	dataURL, err := r.DataURL()
	require.NoError(t, err)

	link := ShareLink("https://example.com/board.html#old", dataURL)
	assert.Contains(t, link, "https://example.com/board.html#drawing=data%3Aimage%2Fpng")
	assert.NotContains(t, link, "#old")

	got, ok := ParseShareLink(link)
	require.True(t, ok)
	assert.Equal(t, dataURL, got)

	_, ok = ParseShareLink("https://example.com/board.html")
	assert.False(t, ok)
	_, ok = ParseShareLink("https://example.com/#drawing=%zz")
	assert.False(t, ok)
}

func TestPDF(t *testing.T) {
	strokes := []stroke.Stroke{
		{Color: "#ff0000", Width: 4, Points: []stroke.Point{{X: 0, Y: 0}, {X: 100, Y: 50}, {X: 200, Y: 0}}},
		{Color: "blue", Width: 8, Points: []stroke.Point{{X: 50, Y: 50}}},
		{Color: "blue", Width: 8},
	}
	for _, size := range [][2]float64{{800, 600}, {300, 900}} {
		var buf bytes.Buffer
		require.NoError(t, PDF(&buf, strokes, size[0], size[1]))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	}

	assert.Error(t, PDF(io.Discard, strokes, 0, 10))
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "notes.json")
	require.NoError(t, ToFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("[]"))
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	bad := filepath.Join(dir, "broken.png")
	err = ToFile(bad, func(io.Writer) error { return errors.New("encode failed") })
	assert.Error(t, err)
	_, statErr := os.Stat(bad)
	assert.True(t, os.IsNotExist(statErr))
}

type rasterSource struct {
	*surface.Raster
	strokes []stroke.Stroke
}

func (r rasterSource) Snapshot() []stroke.Stroke { return r.strokes }

func TestWrite(t *testing.T) {
	strokes := []stroke.Stroke{{Color: "blue", Width: 2, Points: []stroke.Point{{X: 5, Y: 5}, {X: 60, Y: 20}}}}
	src := rasterSource{Raster: surface.New(200, 150, 1), strokes: strokes}
	src.Replay(strokes)

	var png, pdf, js bytes.Buffer
	require.NoError(t, Write(&png, src, ".png"))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))
	require.NoError(t, Write(&pdf, src, ".PDF"))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))
	require.NoError(t, Write(&js, src, "json"))

	loaded, err := ReadHistory(&js)
	require.NoError(t, err)
	assert.Equal(t, strokes, loaded)

	assert.Error(t, Write(io.Discard, src, ".gif"))
}

func TestReadHistory(t *testing.T) {
	got, err := ReadHistory(strings.NewReader(`[{"color":"red","size":2,"points":[{"x":1,"y":2}]},{"color":"red","size":0,"points":[{"x":1,"y":2}]},{"color":"red","size":2,"points":[]}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "red", got[0].Color)

	_, err = ReadHistory(strings.NewReader(`{"not":"a list"}`))
	assert.Error(t, err)
}
