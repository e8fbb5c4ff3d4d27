package web

import (
	"context"
	"encoding/binary"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/chip8view/pkg/display"
	"github.com/thelolagemann/chip8view/pkg/log"
	"github.com/thelolagemann/chip8view/pkg/render"
)

// screenCacheSize is the number of screens browsers cache.
const screenCacheSize = 16

// hub mirrors the widgets of the host page to every connected
// browser, and forwards browser input to the host.
type hub struct {
	host   *display.Host
	logger log.Logger

	clients              map[*Client]bool
	updates              chan func() []byte
	register, unregister chan *Client
	done                 chan struct{}

	mu        sync.Mutex
	currentID uint8

	// mirrored widget state, owned by run
	screens  *cache
	screen   []byte
	history  *render.History
	toggle   []byte
	speed    map[uint8][]byte
	status   []byte
	controls uint8
}

func newHub(host *display.Host) *hub {
	return &hub{
		host:       host,
		logger:     log.WithPrefix(host.Logger(), "web"),
		clients:    make(map[*Client]bool),
		updates:    make(chan func() []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		screens:    newCache(screenCacheSize),
		history:    render.NewHistory(host.HistorySize(), 0),
		speed:      make(map[uint8][]byte),
	}
}

func (w *hub) run(ctx context.Context) {
	defer close(w.done)

	// periodic info updates
	t := time.NewTicker(time.Second * 1)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range w.clients {
				close(c.Send)
				delete(w.clients, c)
			}
			return
		case c := <-w.register:
			w.clients[c] = true
			for _, m := range w.sync() {
				c.Send <- m
			}
			w.logger.Infof("client %d connected from %s", c.ID, c.Metadata.RemoteAddr)
		case c := <-w.unregister:
			// is this client still registered
			if _, ok := w.clients[c]; ok {
				delete(w.clients, c)
				close(c.Send)
				w.logger.Infof("client %d disconnected", c.ID)
			}
		case update := <-w.updates:
			msg := update()
			if msg == nil {
				continue
			}
			for c := range w.clients {
				select {
				case c.Send <- msg:
				default:
					// too slow to keep up
					close(c.Send)
					delete(w.clients, c)
				}
			}
		case <-t.C:
			if len(w.clients) == 0 {
				continue
			}
			data := []byte{ServerInfo}
			for c := range w.clients {
				rtt := c.latency()
				w.logger.Debugf("client %d rtt %dms", c.ID, rtt)
				latencyBuf := make([]byte, 2)
				binary.LittleEndian.PutUint16(latencyBuf, rtt)
				data = append(data, c.ID)
				data = append(data, latencyBuf...)
			}
			for c := range w.clients {
				select {
				case c.Send <- data:
				default:
				}
			}
		}
	}
}

// sync returns the messages that bring a newly connected browser up
// to date with the current widget state.
func (w *hub) sync() [][]byte {
	retention := make([]byte, 2)
	binary.LittleEndian.PutUint16(retention, uint16(w.host.HistorySize()))
	msgs := [][]byte{append([]byte{Hello}, retention...)}

	for i, e := range w.screens.cache {
		if e.data == "" {
			continue
		}
		msgs = append(msgs, append([]byte{ScreenCacheSync, uint8(i), uint8(i >> 8)}, e.data...))
	}
	if w.screen != nil {
		msgs = append(msgs, w.screen)
	}

	msgs = append(msgs,
		append([]byte{HistorySync}, w.history.Content(render.HTML)...),
		[]byte{ScrollToEnd},
	)
	for _, m := range [][]byte{w.toggle, w.speed[ControlSlider], w.speed[ControlBox], w.status} {
		if m != nil {
			msgs = append(msgs, m)
		}
	}

	return append(msgs, []byte{ControlsInfo, w.controls})
}

// update queues fn to run on the hub's goroutine, where it may
// modify the mirrored widget state. The message it returns is
// broadcast to every client. Updates queued before run has started
// are buffered.
func (w *hub) update(fn func() []byte) {
	select {
	case w.updates <- fn:
	case <-w.done:
	}
}

// serveWS upgrades a browser connection and registers its client.
func (w *hub) serveWS(wr http.ResponseWriter, r *http.Request) {
	// upgrade the connection to a websocket connection
	conn, err := upgrader.Upgrade(wr, r, nil)
	if err != nil {
		w.logger.Errorf("upgrade: %v", err)
		return
	}

	c := w.newClient(conn, r)

	// spawn read/write pumps
	go c.WritePump()
	go c.ReadPump()

	select {
	case w.register <- c:
	case <-w.done:
		conn.Close()
	}
}

// newClient creates a new client for the given connection.
func (w *hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.currentID++

	c := &Client{
		hub:  w,
		conn: conn,
		Send: make(chan []byte, 1024),
		ID:   w.currentID,
	}
	c.Metadata.RemoteAddr = r.RemoteAddr
	c.Metadata.UserAgent = r.Header.Get("User-Agent")
	c.connectedAt = time.Now()

	return c
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
