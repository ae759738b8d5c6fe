package mixing

import (
	"context"
	"errors"
)

// Handle identifies one episode context inside a simulator
type Handle string

// Simulator is the physics back-end shaking the container. All calls block
// until the simulator answers; Reset may wait for the objects to settle.
type Simulator interface {
	// Reset starts a fresh episode context
	Reset(context.Context) (Handle, error)
	// Positions of all tracked objects relative to the container,
	// color A objects first
	Positions(context.Context, Handle) ([]Position, error)
	// Apply sweeps the container in the given direction, advancing simulated time
	Apply(context.Context, Handle, Direction) error
	// Teardown ends the episode context
	Teardown(context.Context, Handle) error
}

// ErrUnknownHandle is returned by simulators for a handle they do not hold
var ErrUnknownHandle = errors.New("unknown episode handle")
