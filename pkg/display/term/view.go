package term

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/thelolagemann/chip8view/pkg/control"
	"github.com/thelolagemann/chip8view/pkg/emulator"
	"github.com/thelolagemann/chip8view/pkg/render"
)

const (
	enterAlt  = "\x1b[?1049h\x1b[?25l\x1b[?7l\x1b[H"
	exitAlt   = "\x1b[?7h\x1b[?25h\x1b[?1049l"
	beginSync = "\x1b[?2026h"
	endSync   = "\x1b[?2026l"
	dim       = "\x1b[2m"
	reset     = "\x1b[0m"
)

const help = "space run/pause  +/- speed  0-9 enter set speed  l load  r reset  q quit"

const (
	controlToggle = 1 << iota
	controlSlider
	controlBox
	controlLoad
)

// view holds the state of every widget, and repaints the whole
// terminal whenever one of them changes.
type view struct {
	mu  sync.Mutex
	out io.Writer

	content    string
	history    *render.History
	appearance control.Appearance
	enabled    uint8
	slider     int
	box        int
	text       string
	status     control.Status
}

func newView(out io.Writer, retention, rows int) *view {
	return &view{
		out:        out,
		history:    render.NewHistory(retention, rows),
		appearance: control.AppearanceOf(emulator.Paused),
	}
}

func (v *view) enter() {
	v.mu.Lock()
	defer v.mu.Unlock()
	io.WriteString(v.out, enterAlt)
}

func (v *view) exit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	io.WriteString(v.out, exitAlt)
}

// update applies fn to the view and repaints it.
func (v *view) update(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn()
	v.paint()
}

func (v *view) paint() {
	var b strings.Builder
	b.WriteString(beginSync)
	b.WriteString("\x1b[H\x1b[J")
	b.WriteString(v.content)

	b.WriteString(v.control(controlToggle, v.toggleLabel()))
	b.WriteString("  ")
	b.WriteString(v.control(controlSlider, "speed "+strconv.Itoa(v.slider)))
	b.WriteString("  ")
	box := v.text
	if box == "" {
		box = strconv.Itoa(v.box)
	} else {
		box += "_"
	}
	b.WriteString(v.control(controlBox, "["+box+"]"))
	b.WriteString("  ")
	b.WriteString(v.control(controlLoad, "load"))
	b.WriteString("  engine ")
	b.WriteString(v.status.Kind.String())
	if v.status.Message != "" {
		b.WriteString(": " + v.status.Message)
	}
	b.WriteString("\r\n" + dim + help + reset + "\r\n")

	for _, l := range v.history.Visible() {
		b.WriteString(render.ANSI.Line(l))
		b.WriteString(render.ANSI.Break())
	}
	b.WriteString(endSync)

	io.WriteString(v.out, b.String())
}

func (v *view) toggleLabel() string {
	if v.appearance.Style == control.StyleAlert {
		return fmt.Sprintf("\x1b[1;41m %s %s", v.appearance.Label, reset)
	}
	return fmt.Sprintf("\x1b[7m %s %s", v.appearance.Label, reset)
}

func (v *view) control(bit uint8, s string) string {
	if v.enabled&bit == 0 {
		return dim + s + reset
	}
	return s
}

func (v *view) sliderValue() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.slider
}

func (v *view) boxValue() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.box
}

func (v *view) typed() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.text
}

func (v *view) typing(text string) {
	v.update(func() { v.text = text })
}

func (v *view) widgets() control.Widgets {
	return control.Widgets{
		Toggle: toggle{widget{v, controlToggle}},
		Slider: speed{widget{v, controlSlider}, &v.slider},
		Box:    speed{widget{v, controlBox}, &v.box},
		Load:   widget{v, controlLoad},
		Status: indicator{v},
	}
}

func (v *view) screen() render.Surface { return screen{v} }
func (v *view) log() render.Log        { return stateLog{v} }

type widget struct {
	v   *view
	bit uint8
}

func (w widget) Enable()  { w.v.update(func() { w.v.enabled |= w.bit }) }
func (w widget) Disable() { w.v.update(func() { w.v.enabled &^= w.bit }) }

type toggle struct{ widget }

func (t toggle) SetAppearance(a control.Appearance) {
	t.v.update(func() { t.v.appearance = a })
}

type speed struct {
	widget
	value *int
}

func (s speed) SetValue(i int) {
	s.v.update(func() { *s.value = i })
}

type indicator struct{ v *view }

func (i indicator) SetStatus(s control.Status) {
	i.v.update(func() { i.v.status = s })
}

type screen struct{ v *view }

func (s screen) Replace(content string) {
	s.v.update(func() { s.v.content = content })
}

type stateLog struct{ v *view }

func (l stateLog) Append(line render.Line) {
	l.v.update(func() { l.v.history.Append(line) })
}

func (l stateLog) ScrollToEnd() {
	l.v.update(l.v.history.ScrollToEnd)
}
