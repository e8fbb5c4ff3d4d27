package web

import (
	"strconv"

	"github.com/thelolagemann/chip8view/pkg/control"
	"github.com/thelolagemann/chip8view/pkg/render"
)

// The widgets of the host page live in the browsers. Each widget
// here records its state on the hub, for clients that connect later,
// and broadcasts the change to the clients already connected.

// store records msg as the latest value of *field and broadcasts it.
func (w *hub) store(field *[]byte, msg []byte) {
	w.update(func() []byte {
		*field = msg
		return msg
	})
}

type widget struct {
	hub *hub
	bit uint8
}

func (c widget) Enable()  { c.set(true) }
func (c widget) Disable() { c.set(false) }

func (c widget) set(enabled bool) {
	w := c.hub
	w.update(func() []byte {
		if enabled {
			w.controls |= c.bit
		} else {
			w.controls &^= c.bit
		}
		return []byte{ControlsInfo, w.controls}
	})
}

type toggle struct{ widget }

func (t toggle) SetAppearance(a control.Appearance) {
	t.hub.store(&t.hub.toggle, append([]byte{ToggleInfo, uint8(a.Style)}, a.Label...))
}

type speed struct{ widget }

func (s speed) SetValue(v int) {
	w, bit := s.hub, s.bit
	msg := append([]byte{SpeedInfo, bit}, strconv.Itoa(v)...)
	w.update(func() []byte {
		w.speed[bit] = msg
		return msg
	})
}

type indicator struct{ hub *hub }

func (i indicator) SetStatus(st control.Status) {
	i.hub.store(&i.hub.status, append([]byte{StatusInfo, uint8(st.Kind)}, st.Message...))
}

func (w *hub) widgets() control.Widgets {
	return control.Widgets{
		Toggle: toggle{widget{w, ControlToggle}},
		Slider: speed{widget{w, ControlSlider}},
		Box:    speed{widget{w, ControlBox}},
		Load:   widget{w, ControlLoad},
		Status: indicator{w},
	}
}

// screen is the render.Surface of the host page.
type screen struct{ hub *hub }

func (s screen) Replace(content string) {
	w := s.hub
	w.update(func() []byte {
		idx, hit := w.screens.lookup(content)
		w.screen = []byte{ScreenCache, uint8(idx), uint8(idx >> 8)}
		if hit {
			return w.screen
		}
		return append([]byte{Screen, uint8(idx), uint8(idx >> 8)}, content...)
	})
}

// stateLog is the render.Log of the host page.
type stateLog struct{ hub *hub }

func (l stateLog) Append(line render.Line) {
	w := l.hub
	w.update(func() []byte {
		w.history.Append(line)
		return append([]byte{StateLine}, render.HTML.Line(line)...)
	})
}

func (l stateLog) ScrollToEnd() {
	w := l.hub
	w.update(func() []byte {
		w.history.ScrollToEnd()
		return []byte{ScrollToEnd}
	})
}
