package display

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thelolagemann/chip8view/internal/types"
	"github.com/thelolagemann/chip8view/pkg/control"
	"github.com/thelolagemann/chip8view/pkg/emulator"
	"github.com/thelolagemann/chip8view/pkg/render"
)

type widget struct {
	enabled    bool
	value      int
	appearance control.Appearance
	status     control.Status
}

func (w *widget) Enable()                            { w.enabled = true }
func (w *widget) Disable()                           { w.enabled = false }
func (w *widget) SetValue(v int)                     { w.value = v }
func (w *widget) SetAppearance(a control.Appearance) { w.appearance = a }
func (w *widget) SetStatus(s control.Status)         { w.status = s }

type engine struct {
	mu    sync.Mutex
	calls []string
}

func (e *engine) record(s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, s)
	return nil
}

func (e *engine) Begin(context.Context) error         { return e.record("begin") }
func (e *engine) Suspend(context.Context) error       { return e.record("suspend") }
func (e *engine) SetSpeed(context.Context, int) error { return e.record("speed") }
func (e *engine) RequestLoad(context.Context) error   { return e.record("load") }
func (e *engine) Reset(context.Context) error         { return e.record("reset") }

func (e *engine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// settle drains the loop until cond holds.
func settle(t *testing.T, h *Host, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		h.Loop().Drain()
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHost(t *testing.T) {
	e := &engine{}
	h := NewHost(WithController(e), WithSpeed(250))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.calls.Run(ctx)

	toggle, slider, box, load, status := &widget{}, &widget{}, &widget{}, &widget{}, &widget{}
	screen := &render.Buffer{}
	history := render.NewHistory(0, 0)
	h.Attach(render.HTML, control.Widgets{Toggle: toggle, Slider: slider, Box: box, Load: load, Status: status}, screen, history)
	h.Loop().Drain()

	t.Run("blank screen", func(t *testing.T) {
		want := strings.Repeat(strings.Repeat("  ", types.ScreenWidth)+"<br>", types.ScreenHeight)
		if screen.Content() != want {
			t.Error("expected a blank 64x32 screen before the first frame")
		}
		if slider.value != 250 || box.value != 250 {
			t.Errorf("expected speed widgets at 250, got %d and %d", slider.value, box.value)
		}
		if !toggle.enabled {
			t.Error("expected controls to be enabled")
		}
	})

	t.Run("frame", func(t *testing.T) {
		g := types.BlankGrid(2, 2)
		g[0][0] = 1
		h.Frame(g)
		h.Loop().Drain()
		if screen.Content() != "██  <br>    <br>" {
			t.Errorf("unexpected screen %q", screen.Content())
		}
		if h.Screenshot(1).Bounds().Dx() != 2 {
			t.Error("expected screenshot of the last frame")
		}
	})

	t.Run("state", func(t *testing.T) {
		h.State(types.Snapshot{{Name: "pc", Value: 512}})
		h.Loop().Drain()
		if history.Len() != 1 {
			t.Errorf("expected 1 line, got %d", history.Len())
		}
	})

	t.Run("toggle", func(t *testing.T) {
		h.Toggle()
		settle(t, h, func() bool { return e.count() == 2 })
		if toggle.appearance.Label != control.LabelPause {
			t.Errorf("expected %s, got %s", control.LabelPause, toggle.appearance.Label)
		}
	})

	t.Run("reset", func(t *testing.T) {
		h.Reset()
		settle(t, h, func() bool { return e.count() == 3 })
		if toggle.appearance.Label != control.LabelRun {
			t.Errorf("expected %s, got %s", control.LabelRun, toggle.appearance.Label)
		}
	})

	t.Run("reconcile", func(t *testing.T) {
		h.RunState(emulator.Paused)
		h.Loop().Drain()
		if toggle.appearance.Label != control.LabelRun {
			t.Errorf("expected %s, got %s", control.LabelRun, toggle.appearance.Label)
		}
	})

	t.Run("bridge lost", func(t *testing.T) {
		h.Ready(false)
		h.Loop().Drain()
		if toggle.enabled || status.status.Kind != control.StatusUnavailable {
			t.Error("expected controls to be disabled")
		}
		before := e.count()
		h.Load()
		h.Loop().Drain()
		if e.count() != before {
			t.Error("expected load to be ignored")
		}
	})
}
