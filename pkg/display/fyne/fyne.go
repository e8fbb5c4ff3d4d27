//go:build !test

// Package fyne displays the host in a native window.
package fyne

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/thelolagemann/chip8view/internal/types"
	"github.com/thelolagemann/chip8view/pkg/control"
	"github.com/thelolagemann/chip8view/pkg/display"
	"github.com/thelolagemann/chip8view/pkg/display/fyne/themes"
	"github.com/thelolagemann/chip8view/pkg/emulator"
	"github.com/thelolagemann/chip8view/pkg/log"
	"github.com/thelolagemann/chip8view/pkg/render"
	"github.com/thelolagemann/chip8view/pkg/utils"
)

var _ display.Driver = (*Driver)(nil)

// Driver is the native window display driver.
type Driver struct {
	host   *display.Host
	logger log.Logger
	app    fyne.App
	window fyne.Window

	fullscreen bool
	scale      int
}

func init() {
	d := &Driver{}
	display.Install("fyne", d, []display.DriverOption{
		{
			Name:        "fullscreen",
			Default:     false,
			Value:       &d.fullscreen,
			Type:        "bool",
			Description: "Run in fullscreen mode",
		},
		{
			Name:        "scale",
			Default:     10,
			Value:       &d.scale,
			Type:        "int",
			Description: "Scale screenshots by this factor",
		},
	})
}

// Initialize implements display.Driver.
func (d *Driver) Initialize(h *display.Host) {
	d.host = h
	d.logger = log.WithPrefix(h.Logger(), "fyne")
}

// Start implements display.Driver. The window must be run from the
// main goroutine.
func (d *Driver) Start(ctx context.Context) error {
	d.app = app.NewWithID("chip8view")
	d.app.Settings().SetTheme(themes.Default{})

	d.window = d.app.NewWindow("CHIP-8 Emulator")
	d.window.SetMaster()
	d.window.SetPadded(true)

	screen := newScreen()
	history := newHistory(d.host.HistorySize())
	widgets, controls := d.newControls()

	d.window.SetContent(container.NewBorder(
		screen.grid,
		controls,
		nil, nil,
		history.scroll,
	))
	d.window.SetMainMenu(d.menu())
	d.window.Resize(fyne.NewSize(types.ScreenWidth*2*10, types.ScreenHeight*10+360))
	d.window.SetFullScreen(d.fullscreen)
	d.window.Canvas().SetOnTypedKey(d.typedKey)

	d.host.Attach(render.Plain, widgets, screen, history)

	go func() {
		<-ctx.Done()
		d.app.Quit()
	}()

	d.window.ShowAndRun()
	return nil
}

// Stop implements display.Driver.
func (d *Driver) Stop() error {
	if d.app != nil {
		d.app.Quit()
	}
	return nil
}

func (d *Driver) newControls() (control.Widgets, fyne.CanvasObject) {
	h := d.host

	toggle := newToggle(h.Toggle)
	slider := newSlider(emulator.MinSpeed, emulator.MaxSpeed, h.SlideSpeed)
	box := newBox(h.TypeSpeed)
	load := widget.NewButton("Load", h.Load)
	status := newStatus()

	w := control.Widgets{
		Toggle: toggle,
		Slider: slider,
		Box:    box,
		Load:   load,
		Status: status,
	}
	row := container.NewBorder(nil, nil,
		container.NewHBox(toggle.Button, load),
		container.NewHBox(box.Entry, status.Label),
		slider.Slider,
	)
	return w, row
}

func (d *Driver) typedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeySpace:
		d.host.Toggle()
	case fyne.KeyL:
		d.host.Load()
	case fyne.KeyR:
		d.host.Reset()
	case fyne.KeyF11:
		d.window.SetFullScreen(!d.window.FullScreen())
	}
}

func (d *Driver) menu() *fyne.MainMenu {
	copyShot := fyne.NewMenuItem("Copy Screenshot", func() {
		if err := utils.CopyImage(d.host.Screenshot(d.scale)); err != nil {
			d.showError(fmt.Errorf("copying screenshot: %w", err))
		}
	})
	saveShot := fyne.NewMenuItem("Save Screenshot...", func() {
		img := d.host.Screenshot(d.scale)
		go func() {
			err := utils.SaveImage(img, utils.ScreenshotName(time.Now()))
			if err != nil && err != utils.ErrCancelled {
				d.showError(fmt.Errorf("saving screenshot: %w", err))
			}
		}()
	})

	emulation := fyne.NewMenu("Emulation",
		fyne.NewMenuItem("Run/Pause", d.host.Toggle),
		fyne.NewMenuItem("Load Program", d.host.Load),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset", d.host.Reset),
	)
	video := fyne.NewMenu("Video",
		NewCustomizedMenuItem("Fullscreen", func() {
			d.window.SetFullScreen(!d.window.FullScreen())
		}, Checked(d.fullscreen, d.refreshMenu)),
		fyne.NewMenuItemSeparator(),
		copyShot,
		saveShot,
	)

	return fyne.NewMainMenu(emulation, video)
}

func (d *Driver) refreshMenu() {
	if m := d.window.MainMenu(); m != nil {
		m.Refresh()
	}
}

func (d *Driver) showError(err error) {
	d.logger.Errorf("%v", err)
	dialog.ShowError(err, d.window)
}
