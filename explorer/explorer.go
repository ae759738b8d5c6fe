package explorer

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/store"
	"github.com/zeu5/mixing-rl/types"
)

// Explorer inspects a learnt table, optionally along recorded traces
type Explorer struct {
	TableLocation string
	TracesFile    string

	Table  *types.QTable
	Space  *mixing.StateSpace
	Traces []*Trace
}

// NewExplorer loads the table from the store. Traces are optional, an
// empty tracesFile skips them.
func NewExplorer(ctx context.Context, st store.Store, space *mixing.StateSpace, tracesFile string) (*Explorer, error) {
	table, err := st.Load(ctx, space.Len(), len(mixing.AllDirections))
	if err != nil {
		return nil, err
	}
	e := &Explorer{
		TableLocation: st.Location(),
		TracesFile:    tracesFile,
		Table:         table,
		Space:         space,
		Traces:        make([]*Trace, 0),
	}
	if tracesFile != "" {
		e.Traces, err = readTraces(tracesFile)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

// tableStore reads from redis under the key train writes for the run,
// otherwise from the table file
func tableStore(tableFile, redisAddr, redisKey string, run int) (store.Store, func()) {
	if redisAddr == "" {
		return store.NewFileStore(tableFile), func() {}
	}
	rs := store.NewRedisStore(redisAddr, store.RunKey(redisKey, run))
	return rs, func() { rs.Close() }
}

// Example invocation - ./mixing-rl explore --table results/qtable_1.bin --traces results/traces/Train_1.jsonl
func ExploreCommand() *cobra.Command {
	var tableFile string
	var redisAddr string
	var redisKey string
	var run int
	var tracesFile string
	var population int

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the values of a learnt q table and recorded traces",
		RunE: func(cmd *cobra.Command, args []string) error {
			space, err := mixing.StateSpaceFor(population)
			if err != nil {
				return err
			}
			st, release := tableStore(tableFile, redisAddr, redisKey, run)
			defer release()
			exp, err := NewExplorer(cmd.Context(), st, space, tracesFile)
			if err != nil {
				return err
			}
			exp.Interact(os.Stdin, os.Stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&tableFile, "table", "qtable_1.bin", "Path of the q table file")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Read the q table from this redis address instead of a file")
	cmd.Flags().StringVar(&redisKey, "redis-key", store.DefaultRedisKey, "Key prefix of the q tables in redis, as given to train")
	cmd.Flags().IntVar(&run, "run", 1, "Run whose q table is read from redis")
	cmd.Flags().StringVar(&tracesFile, "traces", "", "Recorded traces (.json or .jsonl)")
	cmd.Flags().IntVar(&population, "population", mixing.DefaultPopulation, "Objects per color")
	return cmd
}

func (e *Explorer) lookup(key string) (mixing.Signature, int, string) {
	sig, err := mixing.ParseSignature(key)
	if err != nil {
		return sig, 0, err.Error() + "\n"
	}
	index, ok := e.Space.Index(sig)
	if !ok {
		return sig, 0, fmt.Sprintf("%s is not in the state space\n", sig)
	}
	return sig, index, ""
}

func (e *Explorer) getFullState(key string) string {
	sig, index, errS := e.lookup(key)
	if errS != "" {
		return errS
	}
	return fmt.Sprintf("State Key: %s\nIndex: %d\nReward: %d\n%s", sig, index, mixing.Reward(sig), renderSignature(sig))
}

func (e *Explorer) getQValues(key string) string {
	_, index, errS := e.lookup(key)
	if errS != "" {
		return errS
	}
	out := "Q values are:\n"
	for i, v := range e.Table.Row(index) {
		out += fmt.Sprintf("%s: %f\n", mixing.AllDirections[i].Hash(), v)
	}
	out += fmt.Sprintf("Greedy choice: %s\n", mixing.AllDirections[e.Table.ArgMax(index)].Hash())
	return out
}

func (e *Explorer) getInitialStates() string {
	initialStates := make(map[string]int)
	order := make([]string, 0)
	for _, t := range e.Traces {
		if t.Initial == "" {
			continue
		}
		if _, ok := initialStates[t.Initial]; !ok {
			order = append(order, t.Initial)
		}
		initialStates[t.Initial] += 1
	}
	if len(order) == 0 {
		return "No initial states recorded\n"
	}
	out := "Initial States are:\n"
	for _, k := range order {
		out += fmt.Sprintf("%s: %d\n", k, initialStates[k])
	}
	return out
}
