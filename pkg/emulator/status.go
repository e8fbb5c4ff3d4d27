package emulator

// RunState represents the execution mode of the engine. It
// can be one of the following:
//
//   - Paused
//   - Running
//
// The presentation layer only ever holds a mirror of the
// engine's state, which is reconciled whenever the engine
// pushes a RunStatus message.
type RunState uint8

const (
	// Paused represents the engine when it is not
	// stepping. This is the initial state.
	Paused RunState = iota
	// Running represents the engine when it is
	// stepping at the configured speed.
	Running
)

func (s RunState) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	default:
		return "Unknown"
	}
}

func (s RunState) IsRunning() bool {
	return s == Running
}

func (s RunState) IsPaused() bool {
	return s == Paused
}

// Toggled returns the state a run/pause toggle moves to.
func (s RunState) Toggled() RunState {
	if s == Running {
		return Paused
	}
	return Running
}

const (
	// MinSpeed is the slowest speed, in cycles per tick, the
	// engine can be asked to run at.
	MinSpeed = 1
	// MaxSpeed is the fastest speed the engine can be asked to
	// run at.
	MaxSpeed = 2000
	// DefaultSpeed is the speed used before the user
	// changes it.
	DefaultSpeed = 500
)

// ClampSpeed bounds v to [MinSpeed, MaxSpeed].
func ClampSpeed(v int) int {
	switch {
	case v < MinSpeed:
		return MinSpeed
	case v > MaxSpeed:
		return MaxSpeed
	}
	return v
}
