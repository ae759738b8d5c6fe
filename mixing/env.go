package mixing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeu5/mixing-rl/types"
)

// MixState is the observation of the agent: the occupancy signature and
// its row in the state space
type MixState struct {
	Signature Signature
	index     int
	inSpace   bool
}

var _ types.State = &MixState{}

func (m *MixState) Hash() string {
	return m.Signature.String()
}

func (m *MixState) Actions() []types.Action {
	return AllDirections
}

func (m *MixState) Index() (int, bool) {
	return m.index, m.inSpace
}

type EnvironmentConfig struct {
	Population int
	Classifier *Classifier
	Space      *StateSpace
}

// TeardownTimeout bounds the release of an episode context
const TeardownTimeout = 5 * time.Second

// MixEnvironment adapts a Simulator to the agent. It keeps at most one
// episode context of the simulator open.
type MixEnvironment struct {
	sim    Simulator
	config EnvironmentConfig

	handle Handle
	open   bool
}

var _ types.Environment = &MixEnvironment{}

func NewMixEnvironment(sim Simulator, config EnvironmentConfig) *MixEnvironment {
	if config.Population == 0 {
		config.Population = DefaultPopulation
	}
	if config.Classifier == nil {
		config.Classifier = NewClassifier(DefaultCellSize, false)
	}
	if config.Space == nil {
		config.Space = DefaultStateSpace()
	}
	return &MixEnvironment{
		sim:    sim,
		config: config,
	}
}

// unavailable marks simulator failures, cancellations are passed through
func unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, types.ErrEnvironmentUnavailable) || errors.Is(err, types.ErrInvalidDirection) {
		return err
	}
	return fmt.Errorf("%w: %w", types.ErrEnvironmentUnavailable, err)
}

func (e *MixEnvironment) Reset(eCtx *types.EpisodeContext) (types.State, error) {
	if err := e.Close(eCtx); err != nil {
		return nil, err
	}
	start := time.Now()
	handle, err := e.sim.Reset(eCtx.Context)
	eCtx.Report.AddTimeEntry(time.Since(start), "sim_reset", "MixEnvironment.Reset")
	if err != nil {
		return nil, unavailable(err)
	}
	e.handle = handle
	e.open = true
	return e.observe(eCtx)
}

func (e *MixEnvironment) Step(a types.Action, sCtx *types.StepContext) (types.State, error) {
	d, ok := a.(Direction)
	if !ok || !d.Valid() {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDirection, a)
	}
	if !e.open {
		return nil, fmt.Errorf("%w: no episode in progress", types.ErrEnvironmentUnavailable)
	}
	start := time.Now()
	err := e.sim.Apply(sCtx.Context, e.handle, d)
	sCtx.Report.AddTimeEntry(time.Since(start), "sim_apply", "MixEnvironment.Step")
	if err != nil {
		return nil, unavailable(err)
	}
	return e.observe(sCtx.EpisodeContext)
}

func (e *MixEnvironment) Close(eCtx *types.EpisodeContext) error {
	if !e.open {
		return nil
	}
	e.open = false
	// the episode context may already be cancelled, the simulator still
	// has to release the episode
	ctx, cancel := context.WithTimeout(context.WithoutCancel(eCtx.Context), TeardownTimeout)
	defer cancel()
	if err := e.sim.Teardown(ctx, e.handle); err != nil {
		return unavailable(err)
	}
	return nil
}

func (e *MixEnvironment) observe(eCtx *types.EpisodeContext) (*MixState, error) {
	start := time.Now()
	positions, err := e.sim.Positions(eCtx.Context, e.handle)
	eCtx.Report.AddTimeEntry(time.Since(start), "sim_positions", "MixEnvironment.observe")
	if err != nil {
		return nil, unavailable(err)
	}
	sig, err := e.config.Classifier.Signature(positions, e.config.Population)
	if err != nil {
		return nil, unavailable(err)
	}
	index, ok := e.config.Space.Index(sig)
	return &MixState{
		Signature: sig,
		index:     index,
		inSpace:   ok,
	}, nil
}

// NewMixState builds the observation of a signature within a state space
func NewMixState(sig Signature, space *StateSpace) *MixState {
	index, ok := space.Index(sig)
	return &MixState{Signature: sig, index: index, inSpace: ok}
}
