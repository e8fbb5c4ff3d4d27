package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/thelolagemann/chip8view/pkg/display"
	_ "github.com/thelolagemann/chip8view/pkg/display/fyne"
	_ "github.com/thelolagemann/chip8view/pkg/display/term"
	_ "github.com/thelolagemann/chip8view/pkg/display/web"
	"github.com/thelolagemann/chip8view/pkg/emulator"
	"github.com/thelolagemann/chip8view/pkg/log"
	"github.com/thelolagemann/chip8view/pkg/render"
)

func main() {
	// start pprof
	go func() {
		err := http.ListenAndServe("localhost:6060", nil)
		if err != nil {
			return
		}
	}()

	engine := flag.String("engine", "ws://localhost:8080/bridge", "The websocket URL of the engine")
	displayDriver := flag.String("driver", "auto", "The display driver to use. Can be auto, "+strings.Join(display.DriverNames(), ", "))
	speed := flag.Int("speed", emulator.DefaultSpeed, "The initial speed, in cycles per tick")
	history := flag.Int("history", render.DefaultRetention, "The number of state lines to keep")
	timeout := flag.Duration("timeout", 2*time.Second, "How long to wait for the engine to answer a call")
	debug := flag.Bool("debug", false, "Enable debug logging")

	display.RegisterFlags(flag.CommandLine)
	flag.Parse()

	var logger = log.New(*debug)
	hostLogger := logger
	if *displayDriver == "term" && !*debug {
		// the terminal is the display
		hostLogger = log.NewNullLogger()
	}

	if len(display.InstalledDrivers) == 0 {
		logger.Fatal("No display drivers installed. Please compile with at least one display driver")
	}

	driver := display.GetDriver(*displayDriver)

	// check to make sure the driver is valid
	if driver == nil {
		logger.Fatal("invalid display driver")
	}

	host := display.NewHost(
		display.WithLogger(hostLogger),
		display.WithSpeed(emulator.ClampSpeed(*speed)),
		display.WithHistory(*history),
		display.WithTimeout(*timeout),
	)
	host.Connect(*engine)

	// attach host to driver
	driver.Initialize(host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := host.Run(ctx); err != nil && ctx.Err() == nil {
			hostLogger.Errorf("host stopped: %v", err)
		}
	}()

	// the driver runs on the main goroutine, native windows require it.
	// term restores the terminal before Start returns
	if err := driver.Start(ctx); err != nil {
		stop()
		logger.Fatal(err.Error())
	}
}
