package types

import "encoding/json"

// Trace of an episode as (state, action, nextState, reward) tuples
type Trace struct {
	initial    State
	states     []State
	actions    []Action
	nextStates []State
	rewards    []float64
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		nextStates: make([]State, 0),
		rewards:    make([]float64, 0),
	}
}

// SetInitial records the validated state the episode started from
func (t *Trace) SetInitial(s State) {
	t.initial = s
}

func (t *Trace) Initial() (State, bool) {
	return t.initial, t.initial != nil
}

func (t *Trace) Append(step int, state State, action Action, nextState State, reward float64) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.nextStates = append(t.nextStates, nextState)
	t.rewards = append(t.rewards, reward)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, State, float64, bool) {
	if i < 0 || i >= len(t.states) {
		return nil, nil, nil, 0, false
	}
	return t.states[i], t.actions[i], t.nextStates[i], t.rewards[i], true
}

func (t *Trace) Last() (State, Action, State, float64, bool) {
	return t.Get(len(t.states) - 1)
}

type jsonTrace struct {
	Initial    string    `json:"initial"`
	States     []string  `json:"states"`
	Actions    []string  `json:"actions"`
	NextStates []string  `json:"next_states"`
	Rewards    []float64 `json:"rewards"`
}

// MarshalJSON writes states and actions by their hashes
func (t *Trace) MarshalJSON() ([]byte, error) {
	out := jsonTrace{
		States:     make([]string, len(t.states)),
		Actions:    make([]string, len(t.actions)),
		NextStates: make([]string, len(t.nextStates)),
		Rewards:    t.rewards,
	}
	if t.initial != nil {
		out.Initial = t.initial.Hash()
	}
	for i := range t.states {
		out.States[i] = t.states[i].Hash()
		out.Actions[i] = t.actions[i].Hash()
		out.NextStates[i] = t.nextStates[i].Hash()
	}
	return json.Marshal(out)
}
