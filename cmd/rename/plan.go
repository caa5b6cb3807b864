package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/rename/pkg/rename/output"
	"github.com/jamesainslie/rename/pkg/rename/planner"
	"github.com/jamesainslie/rename/pkg/rename/types"
)

// outputFlags are shared by commands that print a plan.
type outputFlags struct {
	format   string
	template string
}

func (o *outputFlags) register(cmd *cobra.Command, def string) {
	cmd.Flags().StringVarP(&o.format, "output", "o", def, "output format: "+fmt.Sprint(output.Available()))
	cmd.Flags().StringVar(&o.template, "template", "", "Go template used with -o template")
}

// formatter returns the formatter named by the flags, or fallback when no
// format was given.
func (o *outputFlags) formatter(fallback string) (output.Formatter, error) {
	name := o.format
	if name == "" {
		name = fallback
	}
	if name == "template" {
		if o.template == "" {
			return nil, fmt.Errorf("--template is required when using -o template")
		}
		return output.NewTemplateFormatter(o.template), nil
	}
	f, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", name, output.Available())
	}
	return f, nil
}

// naming returns the effective naming configuration for folder. A base name
// left empty by flags and config defaults to the folder's name.
func (a *app) naming(folder string) (types.NamingConfig, error) {
	cfg, err := a.cfg.NamingOptions()
	if err != nil {
		return cfg, fmt.Errorf("invalid naming options: %w", err)
	}
	if cfg.TrimmedBase() == "" {
		cfg.BaseName = filepath.Base(folder)
	}
	return cfg, nil
}

func (a *app) planner() *planner.Planner {
	return planner.New(
		planner.WithHidden(!a.noHidden),
		planner.WithWorkers(a.cfg.Workers),
	)
}

// buildPlan plans folder with the effective configuration.
func (a *app) buildPlan(ctx context.Context, folder string) (*types.RenamePlan, error) {
	cfg, err := a.naming(folder)
	if err != nil {
		return nil, err
	}
	a.printVerbose("Planning %s (base %q, index %s, sort %s)", folder, cfg.BaseName, cfg.IndexType, cfg.Sort)
	return a.planner().Build(ctx, folder, cfg)
}

// render formats r and writes it to stdout.
func (a *app) render(f output.Formatter, r *output.Result) error {
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err := a.stdout.Write(buf.Bytes())
	return err
}

// summarize prints the planning summary and, when needed, the conflict tip.
func (a *app) summarize(plan *types.RenamePlan) {
	s := plan.Summary()
	if !a.quiet {
		fmt.Fprintln(a.stderr, planner.SummaryLine(s))
		if s.ConflictCount > 0 && !plan.Config.AutoResolve {
			fmt.Fprintln(a.stderr, planner.ConflictTip)
		}
	}
}

func resultFor(plan *types.RenamePlan) *output.Result {
	r := output.FromPlan(plan)
	r.Example = planner.PreviewName(plan.Config, len(plan.Rows))
	return r
}

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [folder]",
		Short: "Show the rename plan without touching any file",
		Long: `Plan discovers the files of a folder, sorts them, and prints the name each
file would get together with its status:

  ok              the file will be renamed
  skip-unchanged  the file already has its new name
  conflict        the new name is taken and auto-resolve is off`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := resolveFolder(args)
			if err != nil {
				return err
			}
			return a.printPlan(cmd, folder)
		},
	}
	a.output.register(cmd, "")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		out  outputFlags
		file string
	)

	cmd := &cobra.Command{
		Use:   "export [folder]",
		Short: "Write the rename plan to a file",
		Long: `Export writes the plan mapping to a file. The format follows the file
extension (.csv, .tsv, .md, .json, .yaml) unless -o is given; csv has the
columns Original, New Name and Status.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			folder, err := resolveFolder(args)
			if err != nil {
				return err
			}
			f, err := out.formatter(output.FormatForPath(file))
			if err != nil {
				return err
			}
			plan, err := a.buildPlan(cmd.Context(), folder)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := f.Format(&buf, resultFor(plan)); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			logger.Info("Exported plan: " + file)
			a.printInfo("Exported %d row(s) to %s", len(plan.Rows), file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "output file")
	out.register(cmd, "")
	return cmd
}
