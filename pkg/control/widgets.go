package control

import "github.com/thelolagemann/chip8view/pkg/emulator"

// Style is the visual style of the run/pause toggle.
type Style uint8

const (
	// StyleNormal is used while the engine is paused.
	StyleNormal Style = iota
	// StyleAlert is used while the engine is running.
	StyleAlert
)

func (s Style) String() string {
	if s == StyleAlert {
		return "alert"
	}
	return "normal"
}

const (
	// LabelRun is shown on the toggle while paused.
	LabelRun = "Run"
	// LabelPause is shown on the toggle while running.
	LabelPause = "Pause"
)

// Appearance is how the toggle looks for a given RunState.
type Appearance struct {
	Label string
	Style Style
}

// AppearanceOf returns the appearance of the toggle in state s.
func AppearanceOf(s emulator.RunState) Appearance {
	if s.IsRunning() {
		return Appearance{Label: LabelPause, Style: StyleAlert}
	}
	return Appearance{Label: LabelRun, Style: StyleNormal}
}

// StatusKind describes the health of the bridge.
type StatusKind uint8

const (
	// StatusUnavailable means calls cannot currently be dispatched.
	StatusUnavailable StatusKind = iota
	// StatusReady means the bridge is connected.
	StatusReady
	// StatusError means the last call failed.
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusUnavailable:
		return "unavailable"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is shown on the bridge status indicator.
type Status struct {
	Kind    StatusKind
	Message string
}

// Enabler is a widget that can be enabled and disabled.
type Enabler interface {
	Enable()
	Disable()
}

// Toggle is the run/pause control.
type Toggle interface {
	Enabler
	SetAppearance(Appearance)
}

// ValueWidget is a speed widget, either the slider or the numeric
// box. SetValue must not trigger the widget's own input handler.
type ValueWidget interface {
	Enabler
	SetValue(int)
}

// Indicator displays the bridge Status.
type Indicator interface {
	SetStatus(Status)
}

// Widgets are the controls owned by a Synchronizer.
type Widgets struct {
	Toggle Toggle
	Slider ValueWidget
	Box    ValueWidget
	Load   Enabler
	Status Indicator
}
