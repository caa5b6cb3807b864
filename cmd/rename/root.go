package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jamesainslie/rename/pkg/rename/config"
	"github.com/jamesainslie/rename/pkg/rename/logging"
)

var logger = logging.Get("cli")

// app carries state shared by all commands of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config

	noHidden bool
	verbose  bool
	quiet    bool

	// Root command flags.
	noInteractive bool
	noWatch       bool
	output        outputFlags

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"base":             "naming.base",
	"recursive":        "naming.recursive",
	"sort":             "naming.sort",
	"index":            "naming.index",
	"position":         "naming.position",
	"sep":              "naming.separator",
	"start":            "naming.start",
	"pad":              "naming.padding",
	"case":             "naming.case",
	"ext":              "naming.extension",
	"reset-per-folder": "naming.reset_per_folder",
	"auto-resolve":     "naming.auto_resolve",
	"exclude":          "exclude",
	"workers":          "workers",
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "rename [folder]",
		Short: "Rename every file in a folder to a consistent indexed pattern",
		Long: `Rename builds a deterministic rename plan for a folder, shows it for review,
and applies it safely: unresolved conflicts block the whole batch, existing
files are never overwritten, and the last batch can be undone.

By default, rename launches an interactive TUI. Use the plan, apply, undo and
export commands for scripted use.

Examples:
  rename ~/Pictures/trip --base trip           # Interactive TUI
  rename plan ~/Pictures/trip --base trip      # Print the plan
  rename apply . --base img --pad 3 --yes      # img_001.jpg, img_002.png, ...
  rename apply . --index roman --position before --sep -
  rename undo .                                # Revert the last batch
  rename export . --base img -f mapping.csv    # Export Original,New Name,Status`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.initializeLogging,
		PersistentPostRun: func(*cobra.Command, []string) { _ = logging.Close() },
		RunE:              a.runInteractive,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ~/.config/rename/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "minimal output")
	pf.BoolVar(&a.noHidden, "no-hidden", false, "skip hidden files and folders")
	pf.IntP("workers", "w", 0, "discovery workers (0=auto)")
	pf.StringSliceP("exclude", "e", nil, "exclude file name globs (can be specified multiple times)")
	addNamingFlags(pf)

	cmd.Flags().BoolVarP(&a.noInteractive, "no-interactive", "n", false, "disable TUI, print the plan")
	cmd.Flags().BoolVar(&a.noWatch, "no-watch", false, "do not mark the preview stale when the folder changes")
	a.output.register(cmd, "")

	cmd.AddCommand(
		newPlanCmd(a),
		newApplyCmd(a),
		newUndoCmd(a),
		newExportCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

func addNamingFlags(pf *pflag.FlagSet) {
	pf.StringP("base", "b", "", "base name (default: folder name)")
	pf.BoolP("recursive", "r", false, "include files in subfolders")
	pf.String("sort", "", "sort order: name, mtime, size")
	pf.StringP("index", "i", "", "index type: numeric, alpha, roman, none")
	pf.String("position", "", "index position: after, before")
	pf.String("sep", "", "separator between base name and index")
	pf.Int("start", 1, "first index value")
	pf.String("pad", "", "index width: auto or 1-6")
	pf.String("case", "", "case: unchanged, lower, upper, title")
	pf.String("ext", "", "extension case: keep, lower, upper")
	pf.Bool("reset-per-folder", false, "restart the index in every folder")
	pf.Bool("auto-resolve", true, "resolve name conflicts with \" (n)\" suffixes")
}

// load reads configuration once, binding persistent flags over config file
// and environment values.
func (a *app) load(cmd *cobra.Command) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	a.v = config.NewViper(a.cfgFile)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = a.v.BindPFlag(key, f)
		}
	}

	cfg, err := config.Decode(a.v)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// initializeLogging loads configuration and starts file logging. It runs
// before every command.
func (a *app) initializeLogging(cmd *cobra.Command, _ []string) error {
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()
	a.stdin = cmd.InOrStdin()
	return a.startLogging(cmd, false)
}

// startLogging (re)initializes logging. Interactive mode disables console
// output and keeps recent entries for the TUI log panel.
func (a *app) startLogging(cmd *cobra.Command, interactive bool) error {
	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}

	for _, dir := range []string{config.DataDir(), config.StateDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	lc, err := cfg.LogConfig(interactive)
	if err != nil {
		return err
	}
	switch {
	case a.verbose:
		lc.ConsoleLevel = "debug"
	case a.quiet:
		lc.ConsoleLevel = ""
	}
	return logging.Init(lc)
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// printVerbose prints a message if verbose mode is enabled.
func (a *app) printVerbose(format string, args ...interface{}) {
	if a.verbose && !a.quiet {
		fmt.Fprintf(a.stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func (a *app) printInfo(format string, args ...interface{}) {
	if !a.quiet {
		fmt.Fprintf(a.stdout, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func (a *app) printError(format string, args ...interface{}) {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
}

// resolveFolder returns the absolute folder named by args, defaulting to
// the working directory.
func resolveFolder(args []string) (string, error) {
	folder := "."
	if len(args) > 0 {
		folder = args[0]
	}
	expanded, err := config.ExpandPath(folder)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}
