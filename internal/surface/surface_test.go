package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/stroke"
)

var horizontal = stroke.Stroke{Color: "#ff0000", Width: 6, Points: []stroke.Point{{X: 10, Y: 20}, {X: 90, Y: 20}}}
var vertical = stroke.Stroke{Color: "#0000ff", Width: 6, Points: []stroke.Point{{X: 50, Y: 5}, {X: 50, Y: 45}}}

func alphaAt(r *Raster, x, y int) uint8 {
	return r.Image().RGBAAt(x, y).A
}

func TestResize(t *testing.T) {
	r := New(100, 50, 2)
	b := r.Image().Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Equal(t, 100, b.Dy())

	w, h := r.Size()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)

	r.Resize(0, 0, 0)
	assert.Equal(t, 1.0, r.Scale())
	assert.Equal(t, 1, r.Image().Bounds().Dx())
}

func TestDrawAndClear(t *testing.T) {
	r := New(100, 50, 1)
	assert.Zero(t, alphaAt(r, 50, 20))

	r.Draw(horizontal)
	px := r.Image().RGBAAt(50, 20)
	assert.Equal(t, uint8(0xff), px.R)
	assert.Equal(t, uint8(0xff), px.A)

	r.Clear()
	assert.Zero(t, alphaAt(r, 50, 20))
}

func TestDrawRespectsScale(t *testing.T) {
	r := New(100, 50, 2)
	r.Draw(horizontal)
	assert.Equal(t, uint8(0xff), alphaAt(r, 100, 40))
	assert.Zero(t, alphaAt(r, 100, 90))
}

func TestReplayIsDeterministic(t *testing.T) {
	a := New(100, 50, 1)
	a.Draw(horizontal)
	a.Draw(vertical)

	b := New(100, 50, 1)
	b.Draw(stroke.Stroke{Color: "green", Width: 30, Points: []stroke.Point{{X: 0, Y: 0}, {X: 100, Y: 50}}})
	b.Replay([]stroke.Stroke{horizontal, vertical})

	assert.Equal(t, a.Image().Pix, b.Image().Pix)
	// later strokes paint over earlier ones
	assert.Equal(t, uint8(0xff), b.Image().RGBAAt(50, 20).B)
}

func TestDataURL(t *testing.T) {
	r := New(40, 30, 1)
	r.Draw(stroke.Stroke{Color: "black", Width: 4, Points: []stroke.Point{{X: 20, Y: 15}}})

	u, err := r.DataURL()
	require.NoError(t, err)
	assert.Contains(t, u, "data:image/png;base64,")

	img, err := DecodeDataURL(u)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	_, err = DecodeDataURL("data:text/plain,hi")
	assert.Error(t, err)
	_, err = DecodeDataURL("data:image/png;base64,!!!")
	assert.Error(t, err)
}
