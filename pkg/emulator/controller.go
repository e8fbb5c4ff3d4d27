package emulator

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when a call cannot be dispatched
// because the engine is not connected.
var ErrUnavailable = errors.New("engine unavailable")

// Controller defines the interface contract for a remote engine
// to implement in order for the controls to be able to drive
// it. Every call returns once the engine has acknowledged it, or
// with an error if it could not be delivered or was rejected.
type Controller interface {
	Begin(ctx context.Context) error
	Suspend(ctx context.Context) error
	SetSpeed(ctx context.Context, cyclesPerTick int) error
	RequestLoad(ctx context.Context) error
}

// Resetter is implemented by engines that can be stopped and reset
// to their power-on state.
type Resetter interface {
	Reset(ctx context.Context) error
}
