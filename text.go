package reflector

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const textPadding = 4

// renderText rasterises lines of text onto a filled box, top line first.
func renderText(lines []string, fg, bg color.Color) *image.RGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineH := metrics.Height.Ceil()

	width := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width+2*textPadding, lineH*len(lines)+2*textPadding))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(textPadding, textPadding+i*lineH+metrics.Ascent.Ceil())
		d.DrawString(line)
	}
	return img
}
