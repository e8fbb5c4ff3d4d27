// Package control keeps the run/pause toggle and the speed
// widgets consistent with each other and with the remote engine.
package control

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/thelolagemann/chip8view/pkg/emulator"
	"github.com/thelolagemann/chip8view/pkg/log"
)

// ErrInvalidSpeed is returned by ParseSpeed when the text does not
// start with a number.
var ErrInvalidSpeed = errors.New("invalid speed")

// Synchronizer owns the interactive controls. Local widget state is
// updated optimistically on every user action before the remote
// engine is called, and rolled back if the call fails.
//
// A Synchronizer is not safe for concurrent use; all of its methods
// must be called from the UI thread.
type Synchronizer struct {
	widgets    Widgets
	engine     emulator.Controller
	dispatcher Dispatcher
	logger     log.Logger

	state  emulator.RunState
	speed  int
	ready  bool
	status Status

	// generation is bumped on every change to state, so that a late
	// failure only rolls back the change that caused it.
	generation uint64
}

// Opt configures a Synchronizer.
type Opt func(s *Synchronizer)

// WithLogger sets the logger used to report ignored input and
// failed calls.
func WithLogger(l log.Logger) Opt {
	return func(s *Synchronizer) {
		s.logger = l
	}
}

// WithSpeed sets the initial speed shown by the speed widgets.
func WithSpeed(cyclesPerTick int) Opt {
	return func(s *Synchronizer) {
		s.speed = emulator.ClampSpeed(cyclesPerTick)
	}
}

// WithDispatcher sets how remote calls are issued. The default
// runs them inline.
func WithDispatcher(d Dispatcher) Opt {
	return func(s *Synchronizer) {
		s.dispatcher = d
	}
}

// New creates a Synchronizer for the given widgets and engine. The
// controls start paused and disabled, until SetBridgeReady reports
// that the engine can be reached.
func New(w Widgets, engine emulator.Controller, opts ...Opt) *Synchronizer {
	s := &Synchronizer{
		widgets:    w,
		engine:     engine,
		dispatcher: Inline{},
		logger:     log.NewNullLogger(),
		speed:      emulator.DefaultSpeed,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.apply()
	s.widgets.Slider.SetValue(s.speed)
	s.widgets.Box.SetValue(s.speed)
	s.SetBridgeReady(false)

	return s
}

// State returns the mirrored run state.
func (s *Synchronizer) State() emulator.RunState { return s.state }

// Speed returns the speed shown by both speed widgets.
func (s *Synchronizer) Speed() int { return s.speed }

// Ready reports whether the bridge is available.
func (s *Synchronizer) Ready() bool { return s.ready }

// Status returns the status last shown on the indicator.
func (s *Synchronizer) Status() Status { return s.status }

// Toggle handles an activation of the run/pause control. From Paused
// the current speed is pushed before execution begins; from Running
// execution is suspended.
func (s *Synchronizer) Toggle() {
	if !s.ready {
		s.logger.Infof("ignoring toggle: %s", StatusUnavailable)
		return
	}

	prev := s.state
	gen := s.setState(prev.Toggled())

	if s.state.IsRunning() {
		speed := s.speed
		s.dispatcher.Dispatch("begin", func(ctx context.Context) error {
			if err := s.engine.SetSpeed(ctx, speed); err != nil {
				return err
			}
			return s.engine.Begin(ctx)
		}, s.rollback("begin", gen, prev))
		return
	}

	s.dispatcher.Dispatch("suspend", s.engine.Suspend, s.rollback("suspend", gen, prev))
}

// Reconcile applies the run state reported by the engine, which
// always wins over the mirrored state.
func (s *Synchronizer) Reconcile(state emulator.RunState) {
	if state != s.state {
		s.logger.Debugf("reconciled run state %s -> %s", s.state, state)
	}
	s.setState(state)
}

// SlideSpeed handles input on the slider.
func (s *Synchronizer) SlideSpeed(v float64) {
	if !s.ready {
		s.logger.Infof("ignoring slider input: %s", StatusUnavailable)
		return
	}
	if math.IsNaN(v) {
		s.widgets.Slider.SetValue(s.speed)
		return
	}

	switch {
	case v >= emulator.MaxSpeed:
		s.setSpeed(emulator.MaxSpeed)
	case v <= emulator.MinSpeed:
		s.setSpeed(emulator.MinSpeed)
	default:
		s.setSpeed(int(v))
	}
}

// TypeSpeed handles input on the numeric box. Text that doesn't
// start with a number is rejected and the box is restored.
func (s *Synchronizer) TypeSpeed(text string) {
	if !s.ready {
		s.logger.Infof("ignoring speed input: %s", StatusUnavailable)
		return
	}

	v, err := ParseSpeed(text)
	if err != nil {
		s.logger.Debugf("rejected speed %q: %v", text, err)
		s.widgets.Box.SetValue(s.speed)
		return
	}
	s.setSpeed(v)
}

// Load asks the engine to load a program. The outcome of the load
// itself isn't tracked, only whether the request was delivered.
func (s *Synchronizer) Load() {
	if !s.ready {
		s.logger.Infof("ignoring load: %s", StatusUnavailable)
		return
	}

	s.dispatcher.Dispatch("load program", s.engine.RequestLoad, s.report("load program"))
}

// Reset stops the engine and resets it, when the engine supports
// it. The toggle shows Paused unless the call fails.
func (s *Synchronizer) Reset() {
	if !s.ready {
		s.logger.Infof("ignoring reset: %s", StatusUnavailable)
		return
	}
	r, ok := s.engine.(emulator.Resetter)
	if !ok {
		s.logger.Debugf("ignoring reset: engine cannot be reset")
		return
	}

	prev := s.state
	gen := s.setState(emulator.Paused)
	s.dispatcher.Dispatch("reset", r.Reset, s.rollback("reset", gen, prev))
}

// SetBridgeReady enables or disables the controls as the bridge
// connects and disconnects.
func (s *Synchronizer) SetBridgeReady(ok bool) {
	s.ready = ok

	for _, w := range []Enabler{s.widgets.Toggle, s.widgets.Slider, s.widgets.Box, s.widgets.Load} {
		if ok {
			w.Enable()
		} else {
			w.Disable()
		}
	}

	if ok {
		s.setStatus(Status{Kind: StatusReady})
	} else {
		s.setStatus(Status{Kind: StatusUnavailable, Message: "waiting for engine"})
	}
}

func (s *Synchronizer) setState(state emulator.RunState) uint64 {
	s.state = state
	s.generation++
	s.apply()
	return s.generation
}

func (s *Synchronizer) apply() {
	s.widgets.Toggle.SetAppearance(AppearanceOf(s.state))
}

func (s *Synchronizer) setSpeed(v int) {
	v = emulator.ClampSpeed(v)
	s.speed = v
	s.widgets.Slider.SetValue(v)
	s.widgets.Box.SetValue(v)

	s.dispatcher.Dispatch("set speed", func(ctx context.Context) error {
		return s.engine.SetSpeed(ctx, v)
	}, s.report("set speed"))
}

func (s *Synchronizer) setStatus(st Status) {
	s.status = st
	s.widgets.Status.SetStatus(st)
}

// report returns a completion handler that surfaces the outcome of
// the named call on the status indicator.
func (s *Synchronizer) report(name string) func(error) {
	return func(err error) {
		if err == nil {
			if s.ready && s.status.Kind != StatusReady {
				s.setStatus(Status{Kind: StatusReady})
			}
			return
		}

		s.logger.Errorf("%s failed: %v", name, err)
		if errors.Is(err, emulator.ErrUnavailable) {
			s.setStatus(Status{Kind: StatusUnavailable, Message: name + ": " + err.Error()})
			return
		}
		s.setStatus(Status{Kind: StatusError, Message: name + ": " + err.Error()})
	}
}

// rollback returns a completion handler that restores prev if the
// call failed and nothing has changed the state since.
func (s *Synchronizer) rollback(name string, gen uint64, prev emulator.RunState) func(error) {
	report := s.report(name)
	return func(err error) {
		report(err)
		if err != nil && gen == s.generation {
			s.logger.Infof("rolling back to %s", prev)
			s.setState(prev)
		}
	}
}

// ParseSpeed reads a speed the way a browser's parseInt would: the
// leading integer of the trimmed text, ignoring anything after it.
// The result is clamped to the valid speed range.
func ParseSpeed(text string) (int, error) {
	text = strings.TrimSpace(text)

	end := 0
	if end < len(text) && (text[end] == '-' || text[end] == '+') {
		end++
	}
	digits := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, ErrInvalidSpeed
	}

	v, err := strconv.ParseInt(text[:end], 10, 64)
	if err != nil {
		// only a range error is possible here
		if text[0] == '-' {
			return emulator.MinSpeed, nil
		}
		return emulator.MaxSpeed, nil
	}

	switch {
	case v < emulator.MinSpeed:
		return emulator.MinSpeed, nil
	case v > emulator.MaxSpeed:
		return emulator.MaxSpeed, nil
	}
	return int(v), nil
}
