package types

const (
	// ScreenWidth is the width of the CHIP-8 display in pixels.
	ScreenWidth = 64
	// ScreenHeight is the height of the CHIP-8 display in pixels.
	ScreenHeight = 32
)

// PixelGrid is a snapshot of the engine's display buffer. Each
// row holds one byte per pixel, where 0 is off and 1 is on. A
// grid is produced by the engine once per frame and is never
// mutated by the presentation layer.
type PixelGrid [][]uint8

// BlankGrid returns a grid of the given size with every pixel off.
func BlankGrid(height, width int) PixelGrid {
	g := make(PixelGrid, height)
	for y := range g {
		g[y] = make([]uint8, width)
	}

	return g
}

// Height returns the number of rows in the grid.
func (g PixelGrid) Height() int {
	return len(g)
}

// Width returns the display width of the grid, which is taken to be
// the most common row length. A single corrupt row therefore can't
// change the width used for the rest of the frame. Ties resolve to
// the longer length.
func (g PixelGrid) Width() int {
	counts := make(map[int]int, 2)
	width, best := 0, 0
	for _, row := range g {
		n := len(row)
		counts[n]++
		if c := counts[n]; c > best || (c == best && n > width) {
			width, best = n, c
		}
	}

	return width
}

// Valid reports whether row y has the display width and only holds
// binary pixel values.
func (g PixelGrid) Valid(y int) bool {
	if y < 0 || y >= len(g) || len(g[y]) != g.Width() {
		return false
	}
	for _, p := range g[y] {
		if p > 1 {
			return false
		}
	}

	return true
}
