package commands

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/types"
)

var (
	random        bool
	compareRandom bool
)

// Evaluate follows the saved table of every run greedily and reports the
// maximum reward reached in each episode
func Evaluate(cmd *cobra.Command, _ []string) (err error) {
	record := newRunRecord("evaluate")
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
	comparator := types.RewardPlotComparator(saveFile)

	for run := 1; run <= runs; run++ {
		table, err := tables.forRun(run).Load(ctx, space.Len(), len(mixing.AllDirections))
		if err != nil {
			return fmt.Errorf("run %d: %w", run, err)
		}

		names := make([]string, 0, 2)
		datasets := make([]types.DataSet, 0, 2)
		evaluate := func(name string, randomPolicy bool) error {
			config := mixing.EvalConfig{
				RunOptions: runOptions(name, run, types.RepConfigOff()),
				Random:     randomPolicy,
			}
			maxima, err := mixing.EvaluateOneRun(ctx, newSimulator(run), table, config)
			if err != nil {
				return fmt.Errorf("run %d: %w", run, err)
			}
			fmt.Printf("%s run %d: %s\n", aurora.Cyan(name), run, types.Summarize(maxima))
			names = append(names, name)
			datasets = append(datasets, maxima)
			return nil
		}

		if err := evaluate("Evaluate", random); err != nil {
			return err
		}
		if compareRandom && !random {
			if err := evaluate("Random", true); err != nil {
				return err
			}
		}
		if err := comparator(run, names, datasets); err != nil {
			return err
		}
	}
	return nil
}

func EvaluateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate saved q tables with a greedy policy",
		RunE:  Evaluate,
	}
	cmd.Flags().BoolVar(&random, "random", false, "Ignore the table and act uniformly at random")
	cmd.Flags().BoolVar(&compareRandom, "compare-random", false, "Also evaluate a random policy on the same setup")
	return cmd
}
