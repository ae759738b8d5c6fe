package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/mixing-rl/explorer"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/store"
	"github.com/zeu5/mixing-rl/types"
)

var (
	episodes    int
	horizon     int
	saveFile    string
	runs        int
	seed        uint64
	population  int
	legacyCells bool
	cellSize    float64
	maxResets   int
	configFile  string

	// simulator selection
	simURL        string
	spillProb     float64
	unsettledProb float64

	// table storage
	redisAddr string
	redisKey  string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:               "mixing-rl",
		Short:             "Learn to mix two populations of objects by shaking their container",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 10, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 50, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the policy and the in process simulator")
	rootCommand.PersistentFlags().IntVar(&population, "population", mixing.DefaultPopulation, "Objects per color")
	rootCommand.PersistentFlags().BoolVar(&legacyCells, "legacy-cells", false, "Use the historical up-right cell of color B")
	rootCommand.PersistentFlags().Float64Var(&cellSize, "cell-size", mixing.DefaultCellSize, "Side of each occupancy cell")
	rootCommand.PersistentFlags().IntVar(&maxResets, "max-resets", types.DefaultMaxResets, "Environments discarded before giving up on a valid initial state")
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "YAML file with flag values, command line flags take precedence")

	rootCommand.PersistentFlags().StringVar(&simURL, "sim-url", "", "Address of a simulator bridge, the in process shaker is used when empty")
	rootCommand.PersistentFlags().Float64Var(&spillProb, "spill", 0, "In process shaker: probability of an object leaving the cells per action")
	rootCommand.PersistentFlags().Float64Var(&unsettledProb, "unsettled", 0, "In process shaker: probability of an unsettled reset")

	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis", "", "Keep q tables in redis at this address instead of the save folder")
	rootCommand.PersistentFlags().StringVar(&redisKey, "redis-key", store.DefaultRedisKey, "Key prefix of the q tables in redis")

	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile of train or evaluate to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a heap profile at the end of train or evaluate to this file in the save folder")

	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(EvaluateCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(StatesCommand())
	rootCommand.AddCommand(explorer.ExploreCommand())
	return rootCommand
}
