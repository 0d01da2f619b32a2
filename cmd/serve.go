package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bent101/wordle-entropy/api"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve suggestions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.loadIndex(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := api.New(idx, api.Options{
				Policy:  a.policy(),
				Workers: a.cfg.Solver.Workers,
				Top:     a.cfg.Solver.Top,
				Timeout: a.cfg.Server.Timeout,
			}, a.log)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
