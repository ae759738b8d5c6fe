package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zeu5/mixing-rl/mixing"
)

// StatesCommand prints the size of the state space, or the index and reward
// of the given signatures. Numeric arguments are read as indices.
func StatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "states [signature|index]...",
		Short: "Inspect the state space",
		RunE: func(cmd *cobra.Command, args []string) error {
			space, err := mixing.StateSpaceFor(population)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Printf("population: %d, states: %d, actions: %d\n", space.Population(), space.Len(), len(mixing.AllDirections))
				return nil
			}
			for _, arg := range args {
				if len(arg) != 2*mixing.NumCells {
					i, err := strconv.Atoi(arg)
					if err != nil {
						return fmt.Errorf("%q is neither a signature nor an index", arg)
					}
					sig, ok := space.Signature(i)
					if !ok {
						return fmt.Errorf("index %d out of range [0, %d)", i, space.Len())
					}
					fmt.Printf("%d: %s reward %d\n", i, sig, mixing.Reward(sig))
					continue
				}
				sig, err := mixing.ParseSignature(arg)
				if err != nil {
					return err
				}
				if i, ok := space.Index(sig); ok {
					fmt.Printf("%s: index %d reward %d\n", sig, i, mixing.Reward(sig))
				} else {
					fmt.Printf("%s: not in the state space, reward %d\n", sig, mixing.Reward(sig))
				}
			}
			return nil
		},
	}
}
