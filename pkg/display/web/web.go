// Package web serves the host page to browsers. Every browser shows
// the same screen, state history and controls, and input from any of
// them is forwarded to the engine.
package web

import (
	"context"
	_ "embed"
	"errors"
	"net/http"

	"github.com/thelolagemann/chip8view/pkg/display"
	"github.com/thelolagemann/chip8view/pkg/render"
)

//go:embed index.html
var indexHTML []byte

var _ display.Driver = (*Driver)(nil)

// Driver is the web display driver.
type Driver struct {
	host   *display.Host
	addr   string
	server *http.Server
}

func init() {
	d := &Driver{}
	display.Install("web", d, []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &d.addr,
			Description: "address to serve the host page on",
			Type:        "string",
		},
	})
}

// Initialize implements display.Driver.
func (d *Driver) Initialize(h *display.Host) {
	d.host = h
}

// Start implements display.Driver.
func (d *Driver) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := newHub(d.host)
	go w.run(ctx)

	d.host.Attach(render.HTML, w.widgets(), screen{w}, stateLog{w})

	d.server = &http.Server{Addr: d.addr, Handler: w.handler()}
	errc := make(chan error, 1)
	go func() {
		errc <- d.server.ListenAndServe()
	}()
	w.logger.Infof("serving host page on %s", d.addr)

	select {
	case <-ctx.Done():
		return d.Stop()
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Stop implements display.Driver.
func (d *Driver) Stop() error {
	if d.server == nil {
		return nil
	}
	return d.server.Shutdown(context.Background())
}

func (w *hub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(wr http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(wr, r)
			return
		}
		wr.Header().Set("Content-Type", "text/html; charset=utf-8")
		wr.Write(indexHTML)
	})
	mux.HandleFunc("/ws", w.serveWS)
	return mux
}
