package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bent101/wordle-entropy/index"
	"github.com/bent101/wordle-entropy/internal/cache"
)

func newIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or inspect the cached pattern index",
	}
	cmd.AddCommand(newIndexBuildCmd(a), newIndexInfoCmd(a))
	return cmd
}

func newIndexBuildCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Precompute the index of the dictionary and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := a.loadDictionary()
			if err != nil {
				return err
			}
			c, err := a.openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			start := time.Now()
			idx, hit, err := c.Refresh(cmd.Context(), dict, a.builder(cmd.ErrOrStderr()), force)
			if err != nil {
				return err
			}

			how := "built"
			if hit {
				how = "already cached"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d words of %d letters, %d patterns: %s in %v\n",
				idx.Len(), idx.Length(), idx.Len()*idx.Len(), how, time.Since(start).Round(time.Millisecond))
			fmt.Fprintf(cmd.OutOrStdout(), "digest %s\n", dict.Digest())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "rebuild even when a cached index exists")
	return cmd
}

func newIndexInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the dictionary digest and whether its index is cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := a.loadDictionary()
			if err != nil {
				return err
			}
			c, err := a.openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			status := "cached"
			_, err = c.Lookup(cmd.Context(), dict)
			switch {
			case err == nil:
			case errors.Is(err, cache.ErrMiss):
				status = "not cached"
			case errors.Is(err, cache.ErrCorrupt), errors.Is(err, index.ErrMismatch):
				status = "stale (" + err.Error() + ")"
			default:
				return fmt.Errorf("index cache: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dictionary  %s\n", a.cfg.Dictionary.Path)
			fmt.Fprintf(out, "words       %d\n", dict.Len())
			fmt.Fprintf(out, "length      %d\n", dict.Length())
			fmt.Fprintf(out, "digest      %s\n", dict.Digest())
			fmt.Fprintf(out, "backend     %s\n", a.cfg.Cache.Backend)
			fmt.Fprintf(out, "index       %s\n", status)
			return nil
		},
	}
}
