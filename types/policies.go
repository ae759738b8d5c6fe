package types

import (
	"golang.org/x/exp/rand"
)

type Policy interface {
	// NextAction picks the action to take at the given step
	NextAction(int, State, []Action) (Action, bool)
	// Update is invoked once per valid transition, right after it is observed
	Update(*StepContext)
	// Reset clears anything learnt so far
	Reset()
}

// RandomPolicy picks uniformly among the available actions, used as a baseline
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(src rand.Source) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(src),
	}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	i := r.rand.Intn(len(actions))
	return actions[i], true
}

func (r *RandomPolicy) Update(_ *StepContext) {}
