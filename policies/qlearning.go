package policies

import (
	"github.com/zeu5/mixing-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Default hyper parameters of the tabular Q-learning agent
const (
	DefaultAlpha   = 0.1
	DefaultGamma   = 0.99
	DefaultEpsilon = 0.1
)

// QUpdate applies the one step Q-learning rule in place and returns the new value
//
//	Q[s,a] <- (1-alpha) Q[s,a] + alpha (r + gamma max_a' Q[s',a'])
func QUpdate(table *types.QTable, state, action int, reward float64, nextState int, alpha, gamma float64) float64 {
	curVal := table.Get(state, action)
	newVal := (1-alpha)*curVal + alpha*(reward+gamma*table.Max(nextState))
	table.Set(state, action, newVal)
	return newVal
}

// greedy returns the first action, in the given order, achieving the maximum value
func greedy(table *types.QTable, state int, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	vals := make([]float64, len(actions))
	for i, a := range actions {
		vals[i] = table.Get(state, a.Index())
	}
	return actions[floats.MaxIdx(vals)], true
}

// QLearningPolicy is epsilon greedy over a dense Q table and updates it
// after every transition. Epsilon is constant.
type QLearningPolicy struct {
	table   *types.QTable
	alpha   float64
	gamma   float64
	epsilon float64
	rand    *rand.Rand
}

var _ types.Policy = &QLearningPolicy{}

func NewQLearningPolicy(table *types.QTable, alpha, gamma, epsilon float64, src rand.Source) *QLearningPolicy {
	return &QLearningPolicy{
		table:   table,
		alpha:   alpha,
		gamma:   gamma,
		epsilon: epsilon,
		rand:    rand.New(src),
	}
}

func (q *QLearningPolicy) Table() *types.QTable {
	return q.table
}

func (q *QLearningPolicy) Reset() {
	q.table.Reset()
}

func (q *QLearningPolicy) NextAction(step int, state types.State, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	if q.rand.Float64() < q.epsilon {
		return actions[q.rand.Intn(len(actions))], true
	}
	s, ok := state.Index()
	if !ok {
		return nil, false
	}
	return greedy(q.table, s, actions)
}

func (q *QLearningPolicy) Update(sCtx *types.StepContext) {
	s, ok := sCtx.State.Index()
	if !ok {
		return
	}
	next, ok := sCtx.NextState.Index()
	if !ok {
		return
	}
	val := QUpdate(q.table, s, sCtx.Action.Index(), sCtx.Reward, next, q.alpha, q.gamma)
	sCtx.Report.AddFloatEntry(val, "q_value", "QLearningPolicy.Update")
}

// GreedyPolicy follows a learnt table without exploring or updating it
type GreedyPolicy struct {
	table *types.QTable
}

var _ types.Policy = &GreedyPolicy{}

func NewGreedyPolicy(table *types.QTable) *GreedyPolicy {
	return &GreedyPolicy{table: table}
}

func (g *GreedyPolicy) Reset() {}

func (g *GreedyPolicy) NextAction(step int, state types.State, actions []types.Action) (types.Action, bool) {
	s, ok := state.Index()
	if !ok {
		return nil, false
	}
	return greedy(g.table, s, actions)
}

func (g *GreedyPolicy) Update(_ *types.StepContext) {}
