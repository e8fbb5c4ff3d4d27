package term

import "strconv"

// nudge is how far + and - move the slider.
const nudge = 10

// controls receives the input of the terminal.
type controls interface {
	Toggle()
	SlideSpeed(v float64)
	TypeSpeed(text string)
	Load()
	Reset()
}

// input turns key presses into control input. Digits are collected
// into the speed box until Enter submits them.
type input struct {
	host controls
	view *view
}

// key handles a single key press, and reports whether the user
// asked to quit.
func (in *input) key(b byte) bool {
	switch {
	case b == 'q' || b == 3: // ctrl+c
		return true
	case b == ' ':
		in.host.Toggle()
	case b == '+' || b == '=':
		in.host.SlideSpeed(float64(in.view.sliderValue() + nudge))
	case b == '-' || b == '_':
		in.host.SlideSpeed(float64(in.view.sliderValue() - nudge))
	case b == 'l' || b == 'L':
		in.host.Load()
	case b == 'r' || b == 'R':
		in.host.Reset()
	case b >= '0' && b <= '9':
		in.view.typing(in.view.typed() + string(b))
	case b == 0x7f || b == 0x08: // backspace
		if t := in.view.typed(); len(t) > 0 {
			in.view.typing(t[:len(t)-1])
		}
	case b == '\r' || b == '\n':
		t := in.view.typed()
		if t == "" {
			t = strconv.Itoa(in.view.boxValue())
		}
		in.view.typing("")
		in.host.TypeSpeed(t)
	case b == 0x1b: // escape
		in.view.typing("")
	}
	return false
}
