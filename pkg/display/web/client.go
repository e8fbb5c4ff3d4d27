package web

import (
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a browser displaying the host page.
type Client struct {
	mu       sync.RWMutex
	hub      *hub
	conn     *websocket.Conn
	Send     chan []byte
	ID       uint8
	Metadata struct {
		RemoteAddr string
		UserAgent  string
	}
	avgLatency  uint16
	connectedAt time.Time
}

// ReadPump forwards browser input to the host until the connection
// closes.
func (c *Client) ReadPump() {
	// deferred function to handle unregistering client
	// and closing connection
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	host := c.hub.host
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case InputToggle:
			host.Toggle()
		case InputSlider:
			v, err := strconv.ParseFloat(string(message[1:]), 64)
			if err != nil {
				c.hub.logger.Debugf("client %d: bad slider value %q", c.ID, message[1:])
				continue
			}
			host.SlideSpeed(v)
		case InputBox:
			text := string(message[1:])
			if strings.TrimSpace(text) == "" {
				// being cleared to type a new value
				continue
			}
			host.TypeSpeed(text)
		case InputLoad:
			host.Load()
		case KeepAlive:
		case Closing: // websocket client request close
			return
		default:
			c.hub.logger.Debugf("client %d: unknown input %d", c.ID, message[0])
		}
	}
}

// WritePump writes queued messages to the browser until the hub
// closes Send or a write fails.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.Send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}
	}

	// hub closed the connection
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// latency updates and returns the average round trip time in
// milliseconds.
func (c *Client) latency() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tcp, ok := c.conn.UnderlyingConn().(*net.TCPConn); ok {
		if rtt, err := tcpRTT(tcp); err == nil {
			c.avgLatency = ((c.avgLatency * 9) + uint16(rtt/time.Millisecond)) / 10
		}
	}

	return c.avgLatency
}
