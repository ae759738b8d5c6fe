package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/mixing-rl/util"
	"golang.org/x/exp/rand"
)

// RunConfig is the execution configuration of one experiment run
type RunConfig struct {
	Run      int
	Episodes int
	Context  context.Context

	Analyzers []Analyzer

	// record flags
	RecordTraces  bool
	RecordRewards bool

	ReportConfig *ReportsPrintConfig
	SavePath     string
	// seeds the sampling of episode reports
	Seed  uint64
	Quiet bool

	// Output receives the progress line instead of the terminal when set
	Output *ParallelOutput

	// Append continues the reward log and traces of an earlier invocation,
	// numbering episodes after the recorded ones. Otherwise both are replaced.
	Append bool
}

// RunResult summarises the episodes of a run
type RunResult struct {
	Returns    []float64
	Timesteps  []int
	OutOfSpace int // episodes ended on a state outside the state space
	HorizonEnd int // episodes that used the whole horizon
	Resets     int // environments discarded while waiting for a valid initial state
}

// Experiment couples an agent configuration with a name used in records and plots
type Experiment struct {
	Name   string
	config *AgentConfig
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, config *AgentConfig) *Experiment {
	return &Experiment{
		Name:   name,
		config: config,
	}
}

func (e *Experiment) tracesFile(rConfig *RunConfig) string {
	return path.Join(rConfig.SavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.Run)+".jsonl")
}

func (e *Experiment) rewardsFile(rConfig *RunConfig) string {
	return path.Join(rConfig.SavePath, "rewards_"+e.Name+"_"+strconv.Itoa(rConfig.Run)+".txt")
}

func (e *Experiment) recordTrace(rConfig *RunConfig, trace *Trace) error {
	bs, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	return util.AppendToFile(e.tracesFile(rConfig), string(bs))
}

func (e *Experiment) recordReturn(rConfig *RunConfig, episode int, ret float64) error {
	label := "Total"
	if e.config.Return == MaxReturn {
		label = "Max"
	}
	return util.AppendToFile(e.rewardsFile(rConfig), fmt.Sprintf("%s Reward for episode %d : %g", label, episode, ret))
}

// prepareFolders creates the record folders and clears the records of an
// earlier invocation, unless appending. It returns the number of episodes
// already in the reward log.
func (e *Experiment) prepareFolders(rConfig *RunConfig) (int, error) {
	if rConfig.SavePath == "" {
		rConfig.RecordTraces = false
		rConfig.RecordRewards = false
		return 0, nil
	}
	folders := []string{"epReports"}
	if rConfig.RecordTraces {
		folders = append(folders, "traces")
	}
	for _, f := range folders {
		if err := os.MkdirAll(path.Join(rConfig.SavePath, f), os.ModePerm); err != nil {
			return 0, err
		}
	}
	if rConfig.Append {
		return util.CountLines(e.rewardsFile(rConfig))
	}
	for _, f := range []string{e.rewardsFile(rConfig), e.tracesFile(rConfig)} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return 0, err
		}
	}
	return 0, nil
}

// Run the experiment for the configured number of episodes, one after the other.
// Any episode error other than leaving the state space aborts the run; the
// partial result is returned along with the error.
func (e *Experiment) Run(rConfig *RunConfig) (*RunResult, error) {
	if rConfig.Context == nil {
		rConfig.Context = context.Background()
	}
	recorded, err := e.prepareFolders(rConfig)
	if err != nil {
		return nil, err
	}
	sampler := rand.New(rand.NewSource(rConfig.Seed))
	agent := NewAgent(e.config)
	result := &RunResult{
		Returns:   make([]float64, 0, rConfig.Episodes),
		Timesteps: make([]int, 0, rConfig.Episodes),
	}

	EPPadding := len(strconv.Itoa(rConfig.Episodes))
	for episode := 1; episode <= rConfig.Episodes; episode++ {
		select {
		case <-rConfig.Context.Done():
			return result, rConfig.Context.Err()
		default:
		}

		eCtx := NewEpisodeContext(rConfig.Context, episode, e.Name+"_"+strconv.Itoa(rConfig.Run), rConfig.ReportConfig, rConfig.SavePath)
		start := time.Now()
		agent.RunEpisode(eCtx)
		eCtx.RunDuration = time.Since(start)
		eCtx.Cancel()
		eCtx.Report.AddTimeEntry(eCtx.RunDuration, "return_time", "Experiment.Run")

		result.Resets += eCtx.Resets
		if eCtx.Err != nil {
			if eCtx.reportPrintConfig.PrintIfError {
				if err := eCtx.RecordReport(); err != nil {
					e.warn(rConfig, fmt.Sprintf("episode %d report: %s", episode, err))
				}
			}
			if rConfig.Output != nil {
				rConfig.Output.Set(fmt.Sprintf("Exp:%s, Run:%d, aborted at episode %d", e.Name, rConfig.Run, episode))
			} else if !rConfig.Quiet {
				fmt.Printf("\n%s experiment %s at episode %d: %s\n", aurora.Red("Aborting"), e.Name, episode, eCtx.Err)
			}
			return result, fmt.Errorf("experiment %s, episode %d: %w", e.Name, episode, eCtx.Err)
		}

		result.Returns = append(result.Returns, eCtx.Return)
		result.Timesteps = append(result.Timesteps, eCtx.Timesteps)
		if eCtx.OutOfSpaceBounds {
			result.OutOfSpace += 1
		} else if eCtx.HorizonEnd {
			result.HorizonEnd += 1
		}

		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.Run, eCtx)
		}
		if rConfig.RecordTraces {
			if err := e.recordTrace(rConfig, eCtx.Trace); err != nil {
				return result, err
			}
		}
		if rConfig.RecordRewards {
			if err := e.recordReturn(rConfig, recorded+episode, eCtx.Return); err != nil {
				return result, err
			}
		}
		if eCtx.ToPrintReport || sampler.Float32() < eCtx.reportPrintConfig.Sampling {
			if err := eCtx.RecordReport(); err != nil {
				e.warn(rConfig, fmt.Sprintf("episode %d report: %s", episode, err))
			}
		}

		// terminal execution display
		if rConfig.Output != nil {
			rConfig.Output.TrySet(fmt.Sprintf("Exp:%s, Run:%d, Eps:%*d/%d, Steps:%4d, Bound:%*d, Resets:%*d, Return:%8.2f",
				e.Name, rConfig.Run, EPPadding, episode, rConfig.Episodes, eCtx.Timesteps,
				EPPadding, result.OutOfSpace, EPPadding, result.Resets, eCtx.Return))
		} else if !rConfig.Quiet {
			fmt.Printf("\rExp:%s, Run:%d, Eps:%*d/%d, Steps:%4d, Bound:%*d, Resets:%*d, Return:%8.2f",
				aurora.Cyan(e.Name), rConfig.Run, EPPadding, episode, rConfig.Episodes, eCtx.Timesteps,
				EPPadding, result.OutOfSpace, EPPadding, result.Resets, eCtx.Return)
		}
	}
	if rConfig.Output != nil {
		rConfig.Output.Set(fmt.Sprintf("Exp:%s, Run:%d, done in %d episodes", e.Name, rConfig.Run, rConfig.Episodes))
	} else if !rConfig.Quiet {
		fmt.Println("")
	}
	return result, nil
}

// warn reports a problem that does not stop the run
func (e *Experiment) warn(rConfig *RunConfig, msg string) {
	if rConfig.Output != nil {
		rConfig.Output.Set(fmt.Sprintf("Exp:%s, Run:%d, %s", e.Name, rConfig.Run, msg))
	} else if !rConfig.Quiet {
		fmt.Printf("\n%s %s, run %d: %s\n", aurora.Yellow("Warning"), e.Name, rConfig.Run, msg)
	}
}

// Generic Dataset that contains information after processing the episodes
type DataSet interface{}

// Analyzer compresses the information of the episodes to a DataSet
type Analyzer interface {
	// run, finished episode
	Analyze(int, *EpisodeContext)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet) error
