package types

import "errors"

var (
	// ErrInvalidDirection is returned for an action outside the four directions.
	// No environment call is made.
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInvalidState marks an observation whose per color counts do not
	// add up to the population size.
	ErrInvalidState = errors.New("invalid state")
	// ErrResetRetriesExhausted is returned when no valid initial state was
	// observed within the reset retry budget.
	ErrResetRetriesExhausted = errors.New("reset retries exhausted")
	// ErrEnvironmentUnavailable wraps failures to reach the simulator or
	// malformed data returned by it.
	ErrEnvironmentUnavailable = errors.New("environment unavailable")
	// ErrCorruptTable is returned when a persisted Q table cannot be decoded
	// or its dimensions do not match the state/action space.
	ErrCorruptTable = errors.New("corrupt q table")
)
