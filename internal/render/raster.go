// Package render turns barcode module sequences into pixel rasters. Output is
// deterministic: identical module sequences and options always produce
// pixel-identical bitmaps, encoded as PNG.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"batchme/internal/upc"
)

// Default rasterizer settings.
const (
	// DefaultModuleWidth is the pixel width of one module.
	DefaultModuleWidth = 2

	// DefaultBarHeight is the bar height in pixels.
	DefaultBarHeight = 110

	// DefaultQuietZone is the quiet-zone width in modules per side, the
	// UPC standard minimum.
	DefaultQuietZone = 9

	// textStripHeight is the extra pixel rows reserved beneath the bars
	// for the human-readable digit strip.
	textStripHeight = 20

	// textBaselineOffset is the distance from the top of the text strip
	// to the glyph baseline.
	textBaselineOffset = 15
)

// Options configures the rasterizer. The zero value of any field selects its
// default, so Options{} renders with standard settings.
type Options struct {
	// ModuleWidth is the pixel width of a single module.
	ModuleWidth int

	// BarHeight is the bar height in pixels.
	BarHeight int

	// QuietZone is the quiet-zone width in modules on each side.
	QuietZone int

	// HideText disables the human-readable digit strip beneath the bars.
	HideText bool
}

// normalized returns a copy of o with zero or negative fields replaced by
// their defaults.
func (o Options) normalized() Options {
	if o.ModuleWidth <= 0 {
		o.ModuleWidth = DefaultModuleWidth
	}
	if o.BarHeight <= 0 {
		o.BarHeight = DefaultBarHeight
	}
	if o.QuietZone <= 0 {
		o.QuietZone = DefaultQuietZone
	}
	return o
}

// Barcode is a rendered symbol: the pixel bitmap plus its layout metadata.
type Barcode struct {
	// Bitmap holds the pixels, black bars on a white background.
	Bitmap *image.RGBA

	// Width and Height are the bitmap dimensions in pixels.
	Width  int
	Height int

	// QuietZone is the quiet-zone width in pixels on each side.
	QuietZone int

	// TextBaseline is the y coordinate of the digit-strip baseline, or
	// zero when no text was rendered.
	TextBaseline int
}

// Render paints a module sequence into a bitmap. Bars are drawn left to
// right at one module-width each, flanked by white quiet zones; when text
// rendering is enabled the digit string is composited centered beneath the
// bar region with a fixed glyph face.
func Render(seq upc.ModuleSequence, text string, opts Options) *Barcode {
	opts = opts.normalized()

	quietPx := opts.QuietZone * opts.ModuleWidth
	width := quietPx*2 + seq.TotalModules()*opts.ModuleWidth

	height := opts.BarHeight
	if !opts.HideText {
		height += textStripHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	x := quietPx
	for _, m := range seq {
		w := m.Width * opts.ModuleWidth
		if m.Bar {
			draw.Draw(img, image.Rect(x, 0, x+w, opts.BarHeight), black, image.Point{}, draw.Src)
		}
		x += w
	}

	bc := &Barcode{
		Bitmap:    img,
		Width:     width,
		Height:    height,
		QuietZone: quietPx,
	}

	if !opts.HideText && text != "" {
		bc.TextBaseline = opts.BarHeight + textBaselineOffset
		drawText(img, text, bc.TextBaseline)
	}

	return bc
}

// drawText composites text horizontally centered at the given baseline using
// the fixed 7x13 face.
func drawText(img *image.RGBA, text string, baseline int) {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()

	x := (img.Bounds().Dx() - textWidth) / 2
	if x < 0 {
		x = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	drawer.DrawString(text)
}

// EncodePNG serializes the bitmap as a PNG blob.
func (b *Barcode) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.Bitmap); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
