//go:build !test

package fyne

import (
	"strconv"
	"strings"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/thelolagemann/chip8view/pkg/control"
	"github.com/thelolagemann/chip8view/pkg/render"
)

var (
	_ render.Surface      = (*screen)(nil)
	_ render.Log          = (*history)(nil)
	_ control.Toggle      = (*toggle)(nil)
	_ control.ValueWidget = (*slider)(nil)
	_ control.ValueWidget = (*box)(nil)
	_ control.Indicator   = (*status)(nil)
)

// screen draws the emulator screen on a monospaced grid.
type screen struct {
	grid *widget.TextGrid
}

func newScreen() *screen {
	return &screen{grid: widget.NewTextGrid()}
}

func (s *screen) Replace(content string) {
	s.grid.SetText(strings.TrimSuffix(content, "\n"))
}

// history is the state log. Accented spans keep their colour, and
// only the most recent lines are kept.
type history struct {
	grid   *widget.TextGrid
	scroll *container.Scroll
	max    int
}

func newHistory(max int) *history {
	h := &history{grid: widget.NewTextGrid(), max: max}
	h.scroll = container.NewVScroll(h.grid)
	h.scroll.SetMinSize(fyne.NewSize(0, 160))
	return h
}

func (h *history) Append(line render.Line) {
	var row widget.TextGridRow
	for _, span := range line {
		var style widget.TextGridStyle
		if span.Accent {
			style = &widget.CustomTextGridStyle{FGColor: span.Colour}
		}
		for _, r := range span.Text {
			row.Cells = append(row.Cells, widget.TextGridCell{Rune: r, Style: style})
		}
	}

	h.grid.Rows = append(h.grid.Rows, row)
	if len(h.grid.Rows) > h.max {
		h.grid.Rows = h.grid.Rows[len(h.grid.Rows)-h.max:]
	}
	h.grid.Refresh()
}

func (h *history) ScrollToEnd() {
	h.scroll.ScrollToBottom()
}

type toggle struct {
	*widget.Button
}

func newToggle(onTap func()) *toggle {
	return &toggle{widget.NewButton(control.LabelRun, onTap)}
}

func (t *toggle) SetAppearance(a control.Appearance) {
	t.Text = a.Label
	if a.Style == control.StyleAlert {
		t.Importance = widget.HighImportance
	} else {
		t.Importance = widget.MediumImportance
	}
	t.Refresh()
}

// slider ignores the change events caused by its own SetValue.
type slider struct {
	*widget.Slider
	echo atomic.Bool
}

func newSlider(min, max float64, onChanged func(float64)) *slider {
	s := &slider{Slider: widget.NewSlider(min, max)}
	s.Step = 1
	s.OnChanged = func(v float64) {
		if s.echo.Load() {
			return
		}
		onChanged(v)
	}
	return s
}

func (s *slider) SetValue(v int) {
	s.echo.Store(true)
	defer s.echo.Store(false)
	s.Slider.SetValue(float64(v))
}

// box submits typed speeds on Enter.
type box struct {
	*widget.Entry
}

func newBox(onSubmit func(string)) *box {
	e := widget.NewEntry()
	e.OnSubmitted = onSubmit
	return &box{e}
}

func (b *box) SetValue(v int) {
	b.SetText(strconv.Itoa(v))
}

type status struct {
	*widget.Label
}

func newStatus() *status {
	return &status{widget.NewLabel(control.StatusUnavailable.String())}
}

func (s *status) SetStatus(st control.Status) {
	text := "engine " + st.Kind.String()
	if st.Message != "" {
		text += ": " + st.Message
	}
	s.SetText(text)
}
