package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bent101/wordle-entropy/internal/config"
	"github.com/bent101/wordle-entropy/internal/observability"
)

// app holds what every command shares once the root pre-run has loaded the
// configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     zerolog.Logger
	closer  io.Closer
}

// NewRootCmd builds the command tree. Each call returns an independent tree
// with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "wordle-entropy",
		Short:         "Suggests Wordle guesses by expected information.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.String("dictionary", "", "word list, one word per line")
	flags.String("cache-backend", "", "index cache backend: file, sqlite or none")
	flags.String("cache-dir", "", "directory of the file cache")
	flags.String("log-level", "", "log level")
	flags.Bool("progress", true, "show a progress bar while indexing")

	for key, name := range map[string]string{
		"dictionary.path": "dictionary",
		"cache.backend":   "cache-backend",
		"cache.dir":       "cache-dir",
		"logger.level":    "log-level",
		"build.progress":  "progress",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newIndexCmd(a),
		newSolveCmd(a),
		newPlayCmd(a),
		newSuggestCmd(a),
		newScoreCmd(),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and sets up logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, closer, err := observability.NewLogger(cfg.Logger, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.log, a.closer = log, closer
	a.log.Debug().Str("command", cmd.CommandPath()).Str("version", Version).Msg("starting")
	return nil
}

// Execute runs the CLI, cancelling commands on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	// After the first signal the default handling is back, so a second
	// Ctrl-C kills a command that does not wind down.
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
