package types

import (
	"fmt"
	"time"
)

// ReturnMode selects how an episode aggregates rewards
type ReturnMode int

const (
	// TotalReturn sums the initial reward and the reward of every valid step
	TotalReturn ReturnMode = iota
	// MaxReturn keeps the maximum reward observed
	MaxReturn
)

func (r ReturnMode) String() string {
	if r == MaxReturn {
		return "max"
	}
	return "total"
}

// DefaultMaxResets bounds how many environments are discarded
// while waiting for a valid initial state
const DefaultMaxResets = 20

type AgentConfig struct {
	Horizon     int
	MaxResets   int
	Return      ReturnMode
	Policy      Policy
	Environment Environment
	Reward      RewardFunc
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config      *AgentConfig
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	if config.MaxResets <= 0 {
		config.MaxResets = DefaultMaxResets
	}
	return &Agent{
		config:      config,
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// RunEpisode runs a single episode, the outcome is stored in the episode context.
// A state outside the state space ends the episode early without any update,
// every other failure is stored in eCtx.Err.
func (a *Agent) RunEpisode(eCtx *EpisodeContext) {
	state, err := a.reset(eCtx)
	if err != nil {
		eCtx.SetError(err)
		return
	}
	defer func() {
		if err := a.environment.Close(eCtx); err != nil && eCtx.Err == nil {
			eCtx.SetError(err)
		}
	}()
	eCtx.Trace.SetInitial(state)

	eCtx.Return = a.config.Reward(state)
	eCtx.Report.AddFloatEntry(eCtx.Return, "reward", "Agent.RunEpisode")

	for i := 0; i < a.config.Horizon; i++ {
		select {
		case <-eCtx.Context.Done():
			eCtx.SetError(eCtx.Context.Err())
			return
		default:
		}

		sCtx := NewStepContext(eCtx, i)
		sCtx.State = state

		action, ok := a.policy.NextAction(i, state, state.Actions())
		if !ok {
			return
		}
		sCtx.Action = action
		eCtx.Report.AddIntEntry(action.Index(), "action", "Agent.RunEpisode")

		start := time.Now()
		nextState, err := a.environment.Step(action, sCtx)
		eCtx.Report.AddTimeEntry(time.Since(start), "step_time", "Agent.RunEpisode")
		if err != nil {
			eCtx.SetError(err)
			return
		}
		if _, ok := nextState.Index(); !ok {
			eCtx.OutOfSpaceBounds = true
			eCtx.Report.AddLog(nextState.Hash(), "out_of_space_state")
			eCtx.SetToPrintReport(eCtx.reportPrintConfig.PrintIfOutOfSpace)
			return
		}

		sCtx.NextState = nextState
		sCtx.Reward = a.config.Reward(nextState)
		eCtx.Report.AddFloatEntry(sCtx.Reward, "reward", "Agent.RunEpisode")

		a.policy.Update(sCtx)

		switch a.config.Return {
		case MaxReturn:
			if sCtx.Reward > eCtx.Return {
				eCtx.Return = sCtx.Reward
			}
		default:
			eCtx.Return += sCtx.Reward
		}

		eCtx.Trace.Append(i, state, action, nextState, sCtx.Reward)
		eCtx.Timesteps += 1
		state = nextState
	}
	eCtx.HorizonEnd = true
}

// reset acquires environments until one yields a state inside the state space
func (a *Agent) reset(eCtx *EpisodeContext) (State, error) {
	for attempt := 0; attempt <= a.config.MaxResets; attempt++ {
		select {
		case <-eCtx.Context.Done():
			return nil, eCtx.Context.Err()
		default:
		}
		state, err := a.environment.Reset(eCtx)
		if err != nil {
			return nil, err
		}
		if _, ok := state.Index(); ok {
			return state, nil
		}
		eCtx.Resets += 1
		eCtx.Report.AddLog(state.Hash(), fmt.Sprintf("invalid_initial_state_%d", attempt))
		if err := a.environment.Close(eCtx); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: no valid initial state after %d resets: %w", ErrResetRetriesExhausted, a.config.MaxResets+1, ErrInvalidState)
}
