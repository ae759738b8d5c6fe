package commands

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/mixing-rl/bridge"
	"github.com/zeu5/mixing-rl/shaker"
)

var listenAddr string

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the in process shaker over HTTP for remote training",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done := interruptContext()
			defer done()

			sim := shaker.New(shakerConfig(seed))
			server := bridge.NewServer(ctx, listenAddr, sim)
			fmt.Printf("%s simulator on %s\n", aurora.Green("Serving"), listenAddr)
			if err := server.Serve(); err != nil {
				return err
			}
			fmt.Printf("Stopped with %d open episodes\n", sim.Open())
			return nil
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:7074", "Address to listen on")
	return cmd
}
