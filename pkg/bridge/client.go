// Package bridge is the client side of the remote-procedure bridge
// to the emulation engine. Commands are sent over a websocket and
// acknowledged by the engine, which also pushes frames, state
// snapshots and its run state over the same connection.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/chip8view/internal/types"
	"github.com/thelolagemann/chip8view/pkg/emulator"
	"github.com/thelolagemann/chip8view/pkg/log"
)

// ErrUnavailable is returned by calls made while the engine is not
// connected, and by calls still pending when the connection drops.
var ErrUnavailable = emulator.ErrUnavailable

var _ emulator.Controller = (*Client)(nil)

// Handler receives everything the engine pushes. Methods are called
// from the client's read goroutine.
type Handler interface {
	// Ready is called with true once connected, and with false
	// when the connection is lost.
	Ready(ok bool)
	Frame(g types.PixelGrid)
	State(s types.Snapshot)
	// RunState is the engine's authoritative run state.
	RunState(s emulator.RunState)
}

// Client is a connection to the engine, re-established whenever
// it drops.
type Client struct {
	url     string
	handler Handler
	dialer  *websocket.Dialer
	logger  log.Logger

	minBackoff, maxBackoff time.Duration

	mu      sync.Mutex
	conn    *connection
	nextID  uint16
	pending map[uint16]chan emulator.ResponsePacket
}

type connection struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Opt is a function that modifies a Client.
type Opt func(c *Client)

// WithLogger sets the logger of the client.
func WithLogger(l log.Logger) Opt {
	return func(c *Client) {
		c.logger = l
	}
}

// WithDialer sets the websocket dialer used to reach the engine.
func WithDialer(d *websocket.Dialer) Opt {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithBackoff sets the delay before the first reconnection attempt,
// and the limit the delay doubles up to.
func WithBackoff(min, max time.Duration) Opt {
	return func(c *Client) {
		c.minBackoff, c.maxBackoff = min, max
	}
}

// New creates a client for the engine at url. Nothing is dialled
// until Run is called.
func New(url string, h Handler, opts ...Opt) *Client {
	c := &Client{
		url:        url,
		handler:    h,
		dialer:     websocket.DefaultDialer,
		logger:     log.NewNullLogger(),
		minBackoff: 250 * time.Millisecond,
		maxBackoff: 5 * time.Second,
		pending:    make(map[uint16]chan emulator.ResponsePacket),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connected reports whether the client currently holds a connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Run connects to the engine and serves the connection, reconnecting
// with exponential backoff, until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	backoff := c.minBackoff
	for {
		ws, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Debugf("unable to reach %s: %v, retrying in %s", c.url, err, backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			if backoff *= 2; backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
			continue
		}

		backoff = c.minBackoff
		c.logger.Infof("connected to %s", c.url)
		c.serve(ctx, ws)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Infof("lost connection to %s", c.url)
	}
}

func (c *Client) serve(ctx context.Context, ws *websocket.Conn) {
	conn := &connection{
		ws:   ws,
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.handler.Ready(true)

	// unblock ReadPump on shutdown
	go func() {
		select {
		case <-ctx.Done():
			ws.Close()
		case <-conn.done:
		}
	}()
	go c.WritePump(conn)

	c.ReadPump(conn)

	c.mu.Lock()
	c.conn = nil
	close(conn.done)
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()

	ws.Close()
	c.handler.Ready(false)
}

// ReadPump reads messages from the engine until the connection fails.
func (c *Client) ReadPump(conn *connection) {
	for {
		_, message, err := conn.ws.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case emulator.TypeResponse:
			r, err := emulator.DecodeResponse(message)
			if err != nil {
				c.logger.Errorf("%v", err)
				continue
			}
			c.mu.Lock()
			if ch, ok := c.pending[r.ID]; ok {
				ch <- r
				delete(c.pending, r.ID)
			}
			c.mu.Unlock()
		case emulator.TypeFrame:
			g, err := emulator.DecodeFrame(message)
			if err != nil {
				c.logger.Errorf("%v", err)
				continue
			}
			c.handler.Frame(g)
		case emulator.TypeState:
			s, err := emulator.DecodeState(message)
			if err != nil {
				c.logger.Errorf("%v", err)
				continue
			}
			c.handler.State(s)
		case emulator.TypeRunStatus:
			s, err := emulator.DecodeRunStatus(message)
			if err != nil {
				c.logger.Errorf("%v", err)
				continue
			}
			c.handler.RunState(s)
		default:
			c.logger.Debugf("ignoring message of type %d", message[0])
		}
	}
}

// WritePump writes queued commands to the engine.
func (c *Client) WritePump(conn *connection) {
	for {
		select {
		case message := <-conn.send:
			if err := conn.ws.WriteMessage(websocket.BinaryMessage, message); err != nil {
				conn.ws.Close()
				return
			}
		case <-conn.done:
			return
		}
	}
}

// call sends p and waits for the engine to acknowledge it.
func (c *Client) call(ctx context.Context, p emulator.CommandPacket) error {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", p.Command, ErrUnavailable)
	}
	c.nextID++
	p.ID = c.nextID
	reply := make(chan emulator.ResponsePacket, 1)
	c.pending[p.ID] = reply
	c.mu.Unlock()

	select {
	case conn.send <- p.Encode():
	case <-conn.done:
		return fmt.Errorf("%s: %w", p.Command, ErrUnavailable)
	case <-ctx.Done():
		c.forget(p.ID)
		return fmt.Errorf("%s: %w", p.Command, ctx.Err())
	}

	select {
	case r, ok := <-reply:
		if !ok {
			return fmt.Errorf("%s: %w", p.Command, ErrUnavailable)
		}
		return r.Error
	case <-ctx.Done():
		c.forget(p.ID)
		return fmt.Errorf("%s: %w", p.Command, ctx.Err())
	}
}

func (c *Client) forget(id uint16) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Begin starts the engine stepping.
func (c *Client) Begin(ctx context.Context) error {
	return c.call(ctx, emulator.CommandPacket{Command: emulator.CommandBegin})
}

// Suspend stops the engine stepping.
func (c *Client) Suspend(ctx context.Context) error {
	return c.call(ctx, emulator.CommandPacket{Command: emulator.CommandSuspend})
}

// SetSpeed sets the speed of the engine in cycles per tick.
func (c *Client) SetSpeed(ctx context.Context, cyclesPerTick int) error {
	return c.call(ctx, emulator.SpeedPacket(cyclesPerTick))
}

// RequestLoad asks the engine to prompt for and load a program.
func (c *Client) RequestLoad(ctx context.Context) error {
	return c.call(ctx, emulator.CommandPacket{Command: emulator.CommandLoadProgram})
}

var _ emulator.Resetter = (*Client)(nil)

// Reset stops and resets the engine.
func (c *Client) Reset(ctx context.Context) error {
	return c.call(ctx, emulator.CommandPacket{Command: emulator.CommandReset})
}
