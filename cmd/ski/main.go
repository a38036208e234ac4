package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	ski "ski-go"
)

func main() {
	if err := newSkiCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the settings every subcommand sees once flags are parsed.
type options struct {
	configPath  string
	logToStderr bool
	verbose     int
	cfg         ski.Config
}

func newSkiCmd() *cobra.Command {
	opts := &options{cfg: ski.DefaultConfig()}
	cmd := &cobra.Command{
		Use:           "ski",
		Short:         "Parse, reduce and draw SKI combinator terms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging(opts.logToStderr, opts.verbose)
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			glog.Flush()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Read settings from a YAML or TOML file")
	flags.BoolVar(&opts.logToStderr, "logtostderr", false, "Log to stderr instead of to files")
	flags.IntVarP(&opts.verbose, "verbose", "v", 0, "Enable verbose logging (e.g., v=5 logs every step)")
	bindConfigFlags(flags, &opts.cfg)

	cmd.AddCommand(newParseCmd(opts))
	cmd.AddCommand(newStepCmd(opts))
	cmd.AddCommand(newReduceCmd(opts))
	cmd.AddCommand(newLayoutCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))

	return cmd
}

func bindConfigFlags(flags *pflag.FlagSet, cfg *ski.Config) {
	flags.Float64Var(&cfg.LevelHeight, "level-height", cfg.LevelHeight, "Vertical distance between tree levels")
	flags.Float64Var(&cfg.Spacing, "spacing", cfg.Spacing, "Minimum horizontal gap between sibling subtrees")
	flags.IntVar(&cfg.MaxSteps, "max-steps", cfg.MaxSteps, "Give up reducing after this many steps (0 for no limit)")
	flags.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Redex search order: outermost or innermost")
}

// load merges the config file under any flags given explicitly.
func (o *options) load(cmd *cobra.Command) error {
	if o.configPath != "" {
		fileCfg, err := ski.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("level-height") {
			o.cfg.LevelHeight = fileCfg.LevelHeight
		}
		if !flags.Changed("spacing") {
			o.cfg.Spacing = fileCfg.Spacing
		}
		if !flags.Changed("max-steps") {
			o.cfg.MaxSteps = fileCfg.MaxSteps
		}
		if !flags.Changed("strategy") {
			o.cfg.Strategy = fileCfg.Strategy
		}
	}
	glog.V(3).Infof("config: %+v", o.cfg)
	return o.cfg.Validate()
}

// initLogging points glog at the settings given on the command line. glog
// only reads the standard flag set, so the values are copied across.
func initLogging(logToStderr bool, verbose int) {
	if !flag.Parsed() {
		_ = flag.CommandLine.Parse(nil)
	}
	if logToStderr {
		_ = flag.Set("logtostderr", "true")
	}
	if verbose > 0 {
		_ = flag.Set("v", strconv.Itoa(verbose))
	}
}
