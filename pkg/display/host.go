package display

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/thelolagemann/chip8view/internal/types"
	"github.com/thelolagemann/chip8view/pkg/bridge"
	"github.com/thelolagemann/chip8view/pkg/control"
	"github.com/thelolagemann/chip8view/pkg/emulator"
	"github.com/thelolagemann/chip8view/pkg/log"
	"github.com/thelolagemann/chip8view/pkg/render"
)

var _ bridge.Handler = (*Host)(nil)

// Host connects a display driver to the engine. It owns the UI
// loop, and everything that touches widgets or surfaces is posted
// to it: engine pushes, user input and the completion of remote
// calls.
type Host struct {
	loop     *control.Loop
	calls    *control.Async
	logger   log.Logger
	engine   emulator.Controller
	client   *bridge.Client
	speed    int
	timeout  time.Duration
	history  int
	renderer *render.Renderer

	// owned by the loop
	sync   *control.Synchronizer
	screen render.Surface
	log    render.Log
	ready  bool

	mu   sync.Mutex
	grid types.PixelGrid
}

// HostOpt is a function that modifies a Host.
type HostOpt func(h *Host)

// WithLogger sets the logger used by the host and its controls.
func WithLogger(l log.Logger) HostOpt {
	return func(h *Host) {
		h.logger = l
	}
}

// WithSpeed sets the initial speed of the controls.
func WithSpeed(cyclesPerTick int) HostOpt {
	return func(h *Host) {
		h.speed = cyclesPerTick
	}
}

// WithTimeout bounds how long a remote call may take.
func WithTimeout(d time.Duration) HostOpt {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithHistory sets how many state lines drivers retain.
func WithHistory(lines int) HostOpt {
	return func(h *Host) {
		h.history = lines
	}
}

// WithController drives c instead of a bridge client. The host
// treats c as permanently reachable.
func WithController(c emulator.Controller) HostOpt {
	return func(h *Host) {
		h.engine = c
		h.ready = true
	}
}

// NewHost creates a host with an idle loop.
func NewHost(opts ...HostOpt) *Host {
	h := &Host{
		loop:    control.NewLoop(256),
		logger:  log.NewNullLogger(),
		speed:   emulator.DefaultSpeed,
		timeout: 2 * time.Second,
		history: render.DefaultRetention,
		grid:    types.BlankGrid(types.ScreenHeight, types.ScreenWidth),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.calls = control.NewAsync(h.loop, h.timeout)

	return h
}

// Connect creates the bridge client for the engine at url. The
// client is started by Run.
func (h *Host) Connect(url string, opts ...bridge.Opt) *bridge.Client {
	opts = append([]bridge.Opt{bridge.WithLogger(log.WithPrefix(h.logger, "bridge"))}, opts...)
	h.client = bridge.New(url, h, opts...)
	h.engine = h.client
	return h.client
}

// Loop returns the UI loop of the host.
func (h *Host) Loop() *control.Loop { return h.loop }

// HistorySize returns how many state lines drivers should retain.
func (h *Host) HistorySize() int { return h.history }

// Logger returns the logger of the host.
func (h *Host) Logger() log.Logger { return h.logger }

// Run runs the UI loop, the worker issuing remote calls, and the
// bridge client if one was created with Connect, until ctx is
// cancelled.
func (h *Host) Run(ctx context.Context) error {
	go h.calls.Run(ctx)
	if h.client != nil {
		go func() {
			if err := h.client.Run(ctx); err != nil && ctx.Err() == nil {
				h.logger.Errorf("bridge stopped: %v", err)
			}
		}()
	}

	return h.loop.Run(ctx)
}

// Attach hands the host the widgets and surfaces of a driver. The
// screen is painted blank immediately, so that the layout is stable
// before the engine sends its first frame.
func (h *Host) Attach(m render.Markup, w control.Widgets, screen render.Surface, l render.Log) {
	h.loop.Post(func() {
		h.renderer = render.New(m)
		h.screen, h.log = screen, l
		h.sync = control.New(w, h.engine,
			control.WithLogger(log.WithPrefix(h.logger, "controls")),
			control.WithSpeed(h.speed),
			control.WithDispatcher(h.calls),
		)
		h.sync.SetBridgeReady(h.ready)
		h.renderer.RenderScreen(h.screen, h.Grid())
	})
}

// Toggle forwards an activation of the run/pause control.
func (h *Host) Toggle() {
	h.do(func(s *control.Synchronizer) { s.Toggle() })
}

// SlideSpeed forwards input on the speed slider.
func (h *Host) SlideSpeed(v float64) {
	h.do(func(s *control.Synchronizer) { s.SlideSpeed(v) })
}

// TypeSpeed forwards input on the speed box.
func (h *Host) TypeSpeed(text string) {
	h.do(func(s *control.Synchronizer) { s.TypeSpeed(text) })
}

// Load forwards an activation of the load control.
func (h *Host) Load() {
	h.do(func(s *control.Synchronizer) { s.Load() })
}

// Reset forwards an activation of the reset control.
func (h *Host) Reset() {
	h.do(func(s *control.Synchronizer) { s.Reset() })
}

func (h *Host) do(fn func(s *control.Synchronizer)) {
	h.loop.Post(func() {
		if h.sync == nil {
			h.logger.Debugf("input before a driver attached")
			return
		}
		fn(h.sync)
	})
}

// Ready implements bridge.Handler.
func (h *Host) Ready(ok bool) {
	h.loop.Post(func() {
		h.ready = ok
		if h.sync != nil {
			h.sync.SetBridgeReady(ok)
		}
	})
}

// Frame implements bridge.Handler.
func (h *Host) Frame(g types.PixelGrid) {
	h.mu.Lock()
	h.grid = g
	h.mu.Unlock()

	h.loop.Post(func() {
		if h.screen != nil {
			h.renderer.RenderScreen(h.screen, g)
		}
	})
}

// State implements bridge.Handler.
func (h *Host) State(s types.Snapshot) {
	h.loop.Post(func() {
		if h.log != nil {
			h.renderer.RenderState(h.log, s)
		}
	})
}

// RunState implements bridge.Handler.
func (h *Host) RunState(s emulator.RunState) {
	h.loop.Post(func() {
		if h.sync != nil {
			h.sync.Reconcile(s)
		}
	})
}

// Grid returns the last frame received from the engine.
func (h *Host) Grid() types.PixelGrid {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grid
}

// Screenshot returns the last frame as an image, scaled up by scale.
func (h *Host) Screenshot(scale int) image.Image {
	return render.Image(h.Grid(), scale)
}
