package bridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/chip8view/internal/types"
	"github.com/thelolagemann/chip8view/pkg/emulator"
)

// engine is a minimal engine that acknowledges every command and
// records what it received.
type engine struct {
	mu       sync.Mutex
	commands []emulator.CommandPacket
	reject   map[emulator.Command]string
	conns    chan *websocket.Conn
}

func newEngine(t *testing.T) (*engine, *httptest.Server) {
	e := &engine{conns: make(chan *websocket.Conn, 4)}
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		e.conns <- conn

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			p, err := emulator.DecodeCommand(message)
			if err != nil {
				t.Error(err)
				continue
			}

			e.mu.Lock()
			e.commands = append(e.commands, p)
			reject, ok := e.reject[p.Command]
			e.mu.Unlock()

			resp := emulator.ResponsePacket{ID: p.ID, Command: p.Command}
			if ok {
				resp.Error = errors.New(reject)
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, resp.Encode()); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return e, srv
}

func (e *engine) received() []emulator.CommandPacket {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]emulator.CommandPacket(nil), e.commands...)
}

type handler struct {
	ready    chan bool
	frames   chan types.PixelGrid
	states   chan types.Snapshot
	runState chan emulator.RunState
}

func newHandler() *handler {
	return &handler{
		ready:    make(chan bool, 8),
		frames:   make(chan types.PixelGrid, 8),
		states:   make(chan types.Snapshot, 8),
		runState: make(chan emulator.RunState, 8),
	}
}

func (h *handler) Ready(ok bool)                { h.ready <- ok }
func (h *handler) Frame(g types.PixelGrid)      { h.frames <- g }
func (h *handler) State(s types.Snapshot)       { h.states <- s }
func (h *handler) RunState(s emulator.RunState) { h.runState <- s }

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func expect[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func startClient(t *testing.T, url string, h Handler) *Client {
	c := New(url, h, WithBackoff(10*time.Millisecond, 50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)
	return c
}

func TestClient_Calls(t *testing.T) {
	e, srv := newEngine(t)
	h := newHandler()
	c := startClient(t, wsURL(srv), h)

	if !expect(t, h.ready) {
		t.Fatal("expected client to become ready")
	}

	ctx := context.Background()
	if err := c.SetSpeed(ctx, 640); err != nil {
		t.Fatal(err)
	}
	if err := c.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Suspend(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.RequestLoad(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	got := e.received()
	want := []emulator.Command{emulator.CommandSetSpeed, emulator.CommandBegin, emulator.CommandSuspend, emulator.CommandLoadProgram, emulator.CommandReset}
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Command != want[i] {
			t.Errorf("command %d: expected %s, got %s", i, want[i], got[i].Command)
		}
	}
	if speed, _ := got[0].Speed(); speed != 640 {
		t.Errorf("expected speed 640, got %d", speed)
	}
}

func TestClient_EngineError(t *testing.T) {
	e, srv := newEngine(t)
	e.reject = map[emulator.Command]string{emulator.CommandBegin: "no program loaded"}
	h := newHandler()
	c := startClient(t, wsURL(srv), h)
	expect(t, h.ready)

	err := c.Begin(context.Background())
	var engineErr *emulator.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected *emulator.EngineError, got %v", err)
	}
	if engineErr.Message != "no program loaded" {
		t.Errorf("unexpected message %q", engineErr.Message)
	}
}

func TestClient_Unavailable(t *testing.T) {
	c := New("ws://127.0.0.1:1", newHandler())
	if err := c.Begin(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if c.Connected() {
		t.Error("expected client not to be connected")
	}
}

func TestClient_Push(t *testing.T) {
	e, srv := newEngine(t)
	h := newHandler()
	startClient(t, wsURL(srv), h)
	expect(t, h.ready)
	conn := expect(t, e.conns)

	g := types.BlankGrid(types.ScreenHeight, types.ScreenWidth)
	g[3][4] = 1
	frame, err := emulator.EncodeFrame(g, true)
	if err != nil {
		t.Fatal(err)
	}
	state, err := emulator.EncodeState(types.Snapshot{{Name: "pc", Value: 512}})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range [][]byte{frame, {emulator.TypeFrame}, state, emulator.EncodeRunStatus(emulator.Running)} {
		if err := conn.WriteMessage(websocket.BinaryMessage, m); err != nil {
			t.Fatal(err)
		}
	}

	if f := expect(t, h.frames); f[3][4] != 1 {
		t.Error("expected pixel 4,3 to be set")
	}
	if s := expect(t, h.states); s[0].Name != "pc" {
		t.Errorf("unexpected snapshot %v", s)
	}
	if s := expect(t, h.runState); s != emulator.Running {
		t.Errorf("expected Running, got %s", s)
	}
}

func TestClient_Reconnect(t *testing.T) {
	e, srv := newEngine(t)
	h := newHandler()
	c := startClient(t, wsURL(srv), h)
	expect(t, h.ready)

	conn := expect(t, e.conns)
	conn.Close()

	if expect(t, h.ready) {
		t.Fatal("expected client to report the lost connection")
	}
	if !expect(t, h.ready) {
		t.Fatal("expected client to reconnect")
	}
	if err := c.Begin(context.Background()); err != nil {
		t.Errorf("expected call to succeed after reconnecting, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			// never reply
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	h := newHandler()
	c := startClient(t, wsURL(srv), h)
	expect(t, h.ready)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := c.Begin(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
