// Package render turns engine snapshots into text for a display
// surface. A Renderer holds configuration only, so the same
// Renderer can paint any number of surfaces.
package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/thelolagemann/chip8view/internal/types"
)

// Surface is a display area whose content is replaced wholesale.
type Surface interface {
	Replace(content string)
}

// Log is a display area that accumulates lines, such as the
// scrolling state history.
type Log interface {
	Append(line Line)
	ScrollToEnd()
}

// Glyphs are the characters used for each pixel. Two characters
// per pixel compensate for character cells being taller than
// they are wide.
type Glyphs struct {
	On, Off string
}

// DefaultGlyphs draws lit pixels as full blocks.
var DefaultGlyphs = Glyphs{On: "██", Off: "  "}

// Span is a run of text, optionally drawn in an accent colour.
type Span struct {
	Text   string
	Accent bool
	Colour color.RGBA
}

// Line is a single line of styled text.
type Line []Span

// String returns the line without any styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Padding separates the entries of a state line.
const Padding = "     "

// Renderer paints pixel grids and state snapshots using its
// Markup and Glyphs.
type Renderer struct {
	Markup Markup
	Glyphs Glyphs
}

// New returns a Renderer using the DefaultGlyphs.
func New(m Markup) *Renderer {
	return &Renderer{Markup: m, Glyphs: DefaultGlyphs}
}

// Rows converts g into one string per row. Rows that are the wrong
// length or contain anything other than 0 or 1 are drawn fully off.
func (r *Renderer) Rows(g types.PixelGrid) []string {
	width := g.Width()
	off := strings.Repeat(r.Glyphs.Off, width)

	rows := make([]string, len(g))
	for y, row := range g {
		if !g.Valid(y) {
			rows[y] = off
			continue
		}

		var b strings.Builder
		b.Grow(width * len(r.Glyphs.On))
		for _, p := range row {
			if p == 1 {
				b.WriteString(r.Glyphs.On)
			} else {
				b.WriteString(r.Glyphs.Off)
			}
		}
		rows[y] = b.String()
	}

	return rows
}

// RenderScreen replaces the content of s with g.
func (r *Renderer) RenderScreen(s Surface, g types.PixelGrid) {
	s.Replace(r.Markup.Screen(r.Rows(g)))
}

// RenderState appends one line describing snap to l, and scrolls
// l so that the new line is visible.
func (r *Renderer) RenderState(l Log, snap types.Snapshot) {
	l.Append(StateLine(snap))
	l.ScrollToEnd()
}

// StateLine builds the line for snap. Each value is drawn in the
// accent colour for its position.
func StateLine(snap types.Snapshot) Line {
	line := make(Line, 0, len(snap)*3)
	for i, e := range snap {
		if i > 0 {
			line = append(line, Span{Text: Padding})
		}
		line = append(line,
			Span{Text: e.Name + ": "},
			Span{Text: e.String(), Accent: true, Colour: Accent(i, len(snap))},
		)
	}

	return line
}

// Accent returns the colour of entry i of n. Green rises linearly
// from 0 for the first entry to 255 for the last; red is fixed at
// 255 and blue at 0.
func Accent(i, n int) color.RGBA {
	var g uint8
	if n > 1 {
		g = uint8(math.Round(255 * float64(i) / float64(n-1)))
	}
	return color.RGBA{R: 255, G: g, B: 0, A: 255}
}
