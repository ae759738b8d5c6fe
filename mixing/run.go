package mixing

import (
	"context"
	"fmt"

	"github.com/zeu5/mixing-rl/policies"
	"github.com/zeu5/mixing-rl/types"
	"golang.org/x/exp/rand"
)

// RunOptions shared by training and evaluation
type RunOptions struct {
	Name        string
	Run         int
	Episodes    int
	Horizon     int
	Seed        uint64
	MaxResets   int
	Population  int
	CellSize    float64
	LegacyCells bool

	SavePath      string
	RecordTraces  bool
	RecordRewards bool
	ReportConfig  *types.ReportsPrintConfig
	Analyzers     []types.Analyzer
	Quiet         bool
	Output        *types.ParallelOutput
	// Append continues the records of an earlier invocation
	Append bool
}

type TrainConfig struct {
	RunOptions

	Alpha   float64
	Gamma   float64
	Epsilon float64
	// Table to continue training from, a zero table when nil
	Table *types.QTable
}

// DefaultTrainConfig matches the reference training setup
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		RunOptions: RunOptions{
			Name:       "Train",
			Episodes:   10,
			Horizon:    50,
			Population: DefaultPopulation,
			CellSize:   DefaultCellSize,
			MaxResets:  types.DefaultMaxResets,
		},
		Alpha:   policies.DefaultAlpha,
		Gamma:   policies.DefaultGamma,
		Epsilon: policies.DefaultEpsilon,
	}
}

type EvalConfig struct {
	RunOptions

	// Random replaces the learnt greedy policy by a uniform random one
	Random bool
}

type TrainResult struct {
	Table   *types.QTable
	Returns []float64
	Run     *types.RunResult
}

func (o *RunOptions) environment(sim Simulator) (*MixEnvironment, *StateSpace, error) {
	if o.Population == 0 {
		o.Population = DefaultPopulation
	}
	space, err := StateSpaceFor(o.Population)
	if err != nil {
		return nil, nil, err
	}
	env := NewMixEnvironment(sim, EnvironmentConfig{
		Population: o.Population,
		Classifier: NewClassifier(o.CellSize, o.LegacyCells),
		Space:      space,
	})
	return env, space, nil
}

func (o *RunOptions) runConfig(ctx context.Context) *types.RunConfig {
	return &types.RunConfig{
		Run:           o.Run,
		Episodes:      o.Episodes,
		Context:       ctx,
		Analyzers:     o.Analyzers,
		RecordTraces:  o.RecordTraces,
		RecordRewards: o.RecordRewards,
		ReportConfig:  o.ReportConfig,
		SavePath:      o.SavePath,
		Seed:          o.Seed,
		Quiet:         o.Quiet,
		Output:        o.Output,
		Append:        o.Append,
	}
}

// CheckTable rejects a table whose dimensions differ from the state/action space
func CheckTable(table *types.QTable, space *StateSpace) error {
	rows, cols := table.Dims()
	if rows != space.Len() || cols != len(AllDirections) {
		return fmt.Errorf("%w: dimensions [%d, %d], expected [%d, %d]", types.ErrCorruptTable, rows, cols, space.Len(), len(AllDirections))
	}
	return nil
}

// TrainOneRun trains an epsilon greedy Q-learning agent for the configured
// episodes and returns the learnt table with the total reward of every episode
func TrainOneRun(ctx context.Context, sim Simulator, config TrainConfig) (*TrainResult, error) {
	if config.Name == "" {
		config.Name = "Train"
	}
	env, space, err := config.environment(sim)
	if err != nil {
		return nil, err
	}
	table := config.Table
	if table == nil {
		table = types.NewQTable(space.Len(), len(AllDirections))
	} else if err := CheckTable(table, space); err != nil {
		return nil, err
	}

	policy := policies.NewQLearningPolicy(table, config.Alpha, config.Gamma, config.Epsilon, rand.NewSource(config.Seed))
	exp := types.NewExperiment(config.Name, &types.AgentConfig{
		Horizon:     config.Horizon,
		MaxResets:   config.MaxResets,
		Return:      types.TotalReturn,
		Policy:      policy,
		Environment: env,
		Reward:      RewardFunc(),
	})
	res, err := exp.Run(config.runConfig(ctx))
	if err != nil {
		return nil, err
	}
	return &TrainResult{
		Table:   table,
		Returns: res.Returns,
		Run:     res,
	}, nil
}

// EvaluateOneRun follows the table greedily, without updating it, and returns
// the maximum reward observed in every episode
func EvaluateOneRun(ctx context.Context, sim Simulator, table *types.QTable, config EvalConfig) ([]float64, error) {
	if config.Name == "" {
		config.Name = "Evaluate"
	}
	env, space, err := config.environment(sim)
	if err != nil {
		return nil, err
	}
	if err := CheckTable(table, space); err != nil {
		return nil, err
	}

	var policy types.Policy = policies.NewGreedyPolicy(table)
	if config.Random {
		policy = types.NewRandomPolicy(rand.NewSource(config.Seed))
	}
	exp := types.NewExperiment(config.Name, &types.AgentConfig{
		Horizon:     config.Horizon,
		MaxResets:   config.MaxResets,
		Return:      types.MaxReturn,
		Policy:      policy,
		Environment: env,
		Reward:      RewardFunc(),
	})
	res, err := exp.Run(config.runConfig(ctx))
	if err != nil {
		return nil, err
	}
	return res.Returns, nil
}
