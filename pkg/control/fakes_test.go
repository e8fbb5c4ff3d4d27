package control

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thelolagemann/chip8view/pkg/emulator"
)

type enabler struct{ enabled bool }

func (e *enabler) Enable()  { e.enabled = true }
func (e *enabler) Disable() { e.enabled = false }

type toggle struct {
	enabler
	appearance Appearance
}

func (t *toggle) SetAppearance(a Appearance) { t.appearance = a }

type value struct {
	enabler
	value int
}

func (v *value) SetValue(i int) { v.value = i }

type indicator struct{ status Status }

func (i *indicator) SetStatus(s Status) { i.status = s }

type widgets struct {
	toggle      *toggle
	slider, box *value
	load        *enabler
	indicator   *indicator
}

func newWidgets() *widgets {
	return &widgets{
		toggle:    &toggle{},
		slider:    &value{},
		box:       &value{},
		load:      &enabler{},
		indicator: &indicator{},
	}
}

func (w *widgets) Widgets() Widgets {
	return Widgets{Toggle: w.toggle, Slider: w.slider, Box: w.box, Load: w.load, Status: w.indicator}
}

// engine records every call made to it, and fails those named in fail.
type engine struct {
	calls []string
	fail  map[string]error
}

func (e *engine) call(name string) error {
	e.calls = append(e.calls, name)
	return e.fail[name]
}

func (e *engine) Begin(context.Context) error   { return e.call("begin") }
func (e *engine) Suspend(context.Context) error { return e.call("suspend") }
func (e *engine) SetSpeed(_ context.Context, v int) error {
	return e.call(fmt.Sprintf("speed %d", v))
}
func (e *engine) RequestLoad(context.Context) error { return e.call("load") }

var _ emulator.Controller = (*engine)(nil)

type resettable struct{ engine }

func (e *resettable) Reset(context.Context) error { return e.call("reset") }

// slowEngine is safe for use from the dispatch worker. SetSpeed
// takes delay to answer.
type slowEngine struct {
	mu    sync.Mutex
	delay time.Duration
	calls []string
	fail  map[string]error
}

func (e *slowEngine) call(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, name)
	return e.fail[name]
}

func (e *slowEngine) log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func (e *slowEngine) Begin(context.Context) error   { return e.call("begin") }
func (e *slowEngine) Suspend(context.Context) error { return e.call("suspend") }
func (e *slowEngine) SetSpeed(ctx context.Context, v int) error {
	select {
	case <-time.After(e.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return e.call(fmt.Sprintf("speed %d", v))
}
func (e *slowEngine) RequestLoad(context.Context) error { return e.call("load") }

// deferred holds completions until flushed, simulating a slow bridge.
type deferred struct {
	pending []func()
}

func (d *deferred) Dispatch(_ string, call Call, done func(error)) {
	err := call(context.Background())
	d.pending = append(d.pending, func() { done(err) })
}

func (d *deferred) flush() {
	for _, fn := range d.pending {
		fn()
	}
	d.pending = nil
}
