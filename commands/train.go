package commands

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/policies"
	"github.com/zeu5/mixing-rl/store"
	"github.com/zeu5/mixing-rl/types"
)

var (
	alpha        float64
	gamma        float64
	epsilon      float64
	resume       bool
	recordTraces bool
	reports      string
	parallel     int
)

// runOutcome is what a training run leaves for the comparative plots
type runOutcome struct {
	returns  types.DataSet
	coverage types.DataSet
	summary  string
}

// trainRun trains and saves the table of one run. Progress goes to out
// when the run shares the terminal with others.
func trainRun(ctx context.Context, tables *tableStores, run int, space *mixing.StateSpace, reportsConfig *types.ReportsPrintConfig, out *types.ParallelOutput) (*runOutcome, error) {
	st := tables.forRun(run)
	rewards := types.NewRewardAnalyzer()
	coverage := types.NewCoverageAnalyzer()
	config := mixing.TrainConfig{
		RunOptions: runOptions("Train", run, reportsConfig),
		Alpha:      alpha,
		Gamma:      gamma,
		Epsilon:    epsilon,
	}
	config.RecordTraces = recordTraces
	config.Analyzers = []types.Analyzer{rewards, coverage}
	config.Output = out

	if resume {
		table, err := st.Load(ctx, space.Len(), len(mixing.AllDirections))
		switch {
		case err == nil:
			config.Table = table
			config.Append = true
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	res, err := mixing.TrainOneRun(ctx, newSimulator(run), config)
	if err != nil {
		return nil, err
	}
	if err := st.Save(ctx, res.Table); err != nil {
		return nil, fmt.Errorf("saving table: %w", err)
	}
	if err := coverage.Graph().Record(path.Join(saveFile, "visits", "Train_"+strconv.Itoa(run)+".json")); err != nil {
		return nil, err
	}

	return &runOutcome{
		returns:  rewards.DataSet(),
		coverage: coverage.DataSet(),
		summary: fmt.Sprintf("Run %d: %s\n%s q table to %s (visited: %d, out of space: %d, horizon end: %d, resets: %d)",
			run, types.Summarize(res.Returns), aurora.Green("Saved"), st.Location(),
			coverage.Graph().Len(), res.Run.OutOfSpace, res.Run.HorizonEnd, res.Run.Resets),
	}, nil
}

// Train runs independent training runs, each with a fresh table (or the
// saved one with --resume), and saves the learnt table of every run
func Train(cmd *cobra.Command, _ []string) (err error) {
	reportsConfig, err := reportConfig(reports)
	if err != nil {
		return err
	}
	record := newRunRecord("train")
	record.Alpha, record.Gamma, record.Epsilon = alpha, gamma, epsilon
	record.Reports = reports
	record.ReportsConfig = reportsConfig
	if err := record.Write(saveFile); err != nil {
		return err
	}

	stopProfiling, err := startProfiling()
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stopProfiling(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	tables := newTableStores()
	defer tables.Close()

	ctx, done := interruptContext()
	defer done()

	space, err := mixing.StateSpaceFor(population)
	if err != nil {
		return err
	}

	outcomes := make([]*runOutcome, runs)
	if parallel > 1 && runs > 1 {
		jobs := make([]types.ParallelJob, runs)
		for i := range jobs {
			run := i + 1
			jobs[i] = func(ctx context.Context, out *types.ParallelOutput) error {
				o, err := trainRun(ctx, tables, run, space, reportsConfig, out)
				outcomes[run-1] = o
				return err
			}
		}
		if err := types.RunParallel(ctx, parallel, time.Second, jobs); err != nil {
			return err
		}
	} else {
		for run := 1; run <= runs; run++ {
			o, err := trainRun(ctx, tables, run, space, reportsConfig, nil)
			if err != nil {
				return fmt.Errorf("run %d: %w", run, err)
			}
			outcomes[run-1] = o
		}
	}

	rewardPlots := types.RewardPlotComparator(saveFile)
	coveragePlots := types.CoveragePlotComparator(saveFile)
	runNames := make([]string, runs)
	runReturns := make([]types.DataSet, runs)
	runCoverage := make([]types.DataSet, runs)
	for i, o := range outcomes {
		run := i + 1
		fmt.Println(o.summary)
		if err := rewardPlots(run, []string{"Train"}, []types.DataSet{o.returns}); err != nil {
			return err
		}
		runNames[i] = fmt.Sprintf("Run %d", run)
		runReturns[i] = o.returns
		runCoverage[i] = o.coverage
	}
	// all runs on one plot as 0_rewards.png and 0_coverage.png
	if err := rewardPlots(0, runNames, runReturns); err != nil {
		return err
	}
	return coveragePlots(0, runNames, runCoverage)
}

func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train an epsilon greedy Q-learning agent",
		RunE:  Train,
	}
	cmd.Flags().Float64Var(&alpha, "alpha", policies.DefaultAlpha, "Learning rate")
	cmd.Flags().Float64Var(&gamma, "gamma", policies.DefaultGamma, "Discount factor")
	cmd.Flags().Float64Var(&epsilon, "epsilon", policies.DefaultEpsilon, "Exploration probability")
	cmd.Flags().BoolVar(&resume, "resume", false, "Continue from the saved table of each run when there is one")
	cmd.Flags().BoolVar(&recordTraces, "traces", false, "Record the trace of every episode")
	cmd.Flags().StringVar(&reports, "reports", "off", "Episode reports: off, standard or complete")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "Runs trained at the same time, each against its own simulator")
	return cmd
}
