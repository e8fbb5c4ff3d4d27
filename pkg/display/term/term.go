// Package term displays the host in an ANSI terminal.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thelolagemann/chip8view/pkg/display"
	"github.com/thelolagemann/chip8view/pkg/render"
	"golang.org/x/term"
)

var _ display.Driver = (*Driver)(nil)

// Driver is the terminal display driver.
type Driver struct {
	host *display.Host
	rows int

	in  *os.File
	out io.Writer

	stop chan struct{}
}

func init() {
	d := &Driver{in: os.Stdin, out: os.Stdout}
	display.Install("term", d, []display.DriverOption{
		{
			Name:        "rows",
			Default:     8,
			Value:       &d.rows,
			Type:        "int",
			Description: "Number of state lines shown below the screen",
		},
	})
}

// Initialize implements display.Driver.
func (d *Driver) Initialize(h *display.Host) {
	d.host = h
	d.stop = make(chan struct{})
}

// Start implements display.Driver. It puts the terminal into raw
// mode, and restores it when the user quits or ctx is cancelled.
func (d *Driver) Start(ctx context.Context) error {
	fd := int(d.in.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("term: stdin is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("term: raw mode: %w", err)
	}
	defer term.Restore(fd, old)

	v := newView(d.out, d.host.HistorySize(), d.rows)
	v.enter()
	defer v.exit()

	d.host.Attach(render.ANSI, v.widgets(), v.screen(), v.log())

	keys := make(chan byte)
	go func() {
		r := bufio.NewReader(d.in)
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(keys)
				return
			}
			keys <- b
		}
	}()

	in := &input{host: d.host, view: v}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.stop:
			return nil
		case b, ok := <-keys:
			if !ok || in.key(b) {
				return nil
			}
		}
	}
}

// Stop implements display.Driver.
func (d *Driver) Stop() error {
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}
	return nil
}
