package render

import (
	"image"
	"image/color"

	"github.com/thelolagemann/chip8view/internal/types"
	"golang.org/x/image/draw"
)

// Palette is the two colour palette used for screenshots.
var Palette = color.Palette{
	color.RGBA{A: 255},
	color.RGBA{R: 255, G: 255, B: 255, A: 255},
}

// Image converts g into an image scaled up by scale using nearest
// neighbour sampling. Malformed rows are drawn off, as on screen.
func Image(g types.PixelGrid, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	width, height := g.Width(), g.Height()

	src := image.NewPaletted(image.Rect(0, 0, width, height), Palette)
	for y, row := range g {
		if !g.Valid(y) {
			continue
		}
		for x, p := range row {
			src.SetColorIndex(x, y, p)
		}
	}
	if scale == 1 {
		return src
	}

	dst := image.NewPaletted(image.Rect(0, 0, width*scale, height*scale), Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
