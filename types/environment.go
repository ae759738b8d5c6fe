package types

// Environment the agent interacts with. One episode at a time:
// Reset acquires a fresh episode context, Close tears it down.
type Environment interface {
	// Reset starts a new episode and returns the initial observation
	Reset(*EpisodeContext) (State, error)
	// Step executes the action and returns the next observation
	Step(Action, *StepContext) (State, error)
	// Close ends the current episode context, no-op if none is open
	Close(*EpisodeContext) error
}

// State of the system that RL policies observe
type State interface {
	// Should be deterministic
	Hash() string
	// Actions possible from the state
	Actions() []Action
	// Index is the dense row of the state in the Q table.
	// false when the state lies outside the enumerated state space.
	Index() (int, bool)
}

// And Action that RL policy can take
type Action interface {
	// Should be deterministic
	Hash() string
	// Column of the action in the Q table
	Index() int
}

// RewardFunc scores an observation
type RewardFunc func(State) float64
