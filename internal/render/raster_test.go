package render

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchme/internal/upc"
)

func mustEncode(t *testing.T, raw string) upc.ModuleSequence {
	t.Helper()
	code, err := upc.Validate(raw)
	require.NoError(t, err)
	seq, err := upc.Encode(code)
	require.NoError(t, err)
	return seq
}

func TestRender_Dimensions(t *testing.T) {
	seq := mustEncode(t, "012345678905")

	tests := []struct {
		name       string
		opts       Options
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "defaults",
			opts:       Options{},
			wantWidth:  (upc.UPCATotalModules + 2*DefaultQuietZone) * DefaultModuleWidth,
			wantHeight: DefaultBarHeight + textStripHeight,
		},
		{
			name:       "custom module width and height",
			opts:       Options{ModuleWidth: 3, BarHeight: 50, QuietZone: 10},
			wantWidth:  (upc.UPCATotalModules + 20) * 3,
			wantHeight: 50 + textStripHeight,
		},
		{
			name:       "no text strip",
			opts:       Options{BarHeight: 80, HideText: true},
			wantWidth:  (upc.UPCATotalModules + 2*DefaultQuietZone) * DefaultModuleWidth,
			wantHeight: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bc := Render(seq, "012345678905", tt.opts)
			assert.Equal(t, tt.wantWidth, bc.Width)
			assert.Equal(t, tt.wantHeight, bc.Height)
			assert.Equal(t, bc.Width, bc.Bitmap.Bounds().Dx())
			assert.Equal(t, bc.Height, bc.Bitmap.Bounds().Dy())
		})
	}
}

func TestRender_QuietZonesAreBlank(t *testing.T) {
	seq := mustEncode(t, "036000291452")
	bc := Render(seq, "036000291452", Options{HideText: true})

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < bc.Height; y++ {
		for x := 0; x < bc.QuietZone; x++ {
			assert.Equal(t, white, bc.Bitmap.RGBAAt(x, y), "left quiet zone at (%d,%d)", x, y)
			rx := bc.Width - 1 - x
			assert.Equal(t, white, bc.Bitmap.RGBAAt(rx, y), "right quiet zone at (%d,%d)", rx, y)
		}
	}
}

func TestRender_BarsMatchModules(t *testing.T) {
	seq := mustEncode(t, "036000291452")
	opts := Options{ModuleWidth: 2, HideText: true}
	bc := Render(seq, "", opts)

	black := color.RGBA{A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// Sample the first pixel column of every module run at mid-bar height.
	y := DefaultBarHeight / 2
	x := bc.QuietZone
	for i, m := range seq {
		got := bc.Bitmap.RGBAAt(x, y)
		if m.Bar {
			assert.Equal(t, black, got, "module run %d at x=%d", i, x)
		} else {
			assert.Equal(t, white, got, "module run %d at x=%d", i, x)
		}
		x += m.Width * opts.ModuleWidth
	}
}

func TestRender_Idempotent(t *testing.T) {
	seq := mustEncode(t, "012345678905")
	opts := Options{ModuleWidth: 2, BarHeight: 60}

	first := Render(seq, "012345678905", opts)
	second := Render(seq, "012345678905", opts)

	assert.Equal(t, first.Bitmap.Pix, second.Bitmap.Pix)

	firstPNG, err := first.EncodePNG()
	require.NoError(t, err)
	secondPNG, err := second.EncodePNG()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(firstPNG, secondPNG))
}

func TestRender_TextStrip(t *testing.T) {
	seq := mustEncode(t, "01234565")

	withText := Render(seq, "01234565", Options{})
	withoutText := Render(seq, "01234565", Options{HideText: true})

	assert.Equal(t, withoutText.Height+textStripHeight, withText.Height)
	assert.Positive(t, withText.TextBaseline)
	assert.Zero(t, withoutText.TextBaseline)

	// The strip must actually contain dark glyph pixels.
	found := false
	for y := DefaultBarHeight; y < withText.Height && !found; y++ {
		for x := 0; x < withText.Width; x++ {
			r, g, b, _ := withText.Bitmap.RGBAAt(x, y).RGBA()
			if r == 0 && g == 0 && b == 0 {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected glyph pixels beneath the bars")
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	seq := mustEncode(t, "725272730706")
	bc := Render(seq, "725272730706", Options{})

	data, err := bc.EncodePNG()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// PNG signature.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, data[:8])
}
