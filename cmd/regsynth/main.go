package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KromDaniel/regsynth/internal/config"
	"github.com/KromDaniel/regsynth/internal/logging"
	"github.com/KromDaniel/regsynth/pkg/regsynth"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	fs         afero.Fs
	v          *viper.Viper
	configPath string
	verbose    bool
	logFile    string
	log        *logging.Logger
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: viper.New()}

	rootCmd := &cobra.Command{
		Use:          "regsynth",
		Short:        "Generate random regexes together with every string they match",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbosity := 0
			if a.verbose {
				verbosity = 2
			}
			logging.Configure(verbosity, a.logFile)
			a.log = logging.NewLogger("cli", a.verbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml or json)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every pipeline decision")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newFixtureCmd(a))
	rootCmd.AddCommand(newInspectCmd(a))

	return rootCmd
}

// loadConfig resolves defaults, the config file, the environment and any
// flags bound on a.v.
func (a *app) loadConfig() (config.Config, error) {
	return config.Load(a.v, a.fs, a.configPath)
}

// options converts a resolved configuration for the library.
func (a *app) options(cfg config.Config) regsynth.Options {
	p := cfg.Pipeline
	return regsynth.Options{
		Budget:                cfg.Budget,
		Profile:               cfg.Profile,
		Seed:                  cfg.Seed,
		MaxComplexity:         p.MaxComplexity,
		MaxLength:             p.MaxLength,
		FalsePositiveRate:     p.FalsePositiveRate,
		ExpectedItems:         p.ExpectedItems,
		OracleTimeout:         p.OracleTimeout,
		Workers:               p.Workers,
		MaxConsecutiveRejects: p.MaxConsecutiveRejects,
		Verbose:               a.verbose,
	}
}
