package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/rename/pkg/rename/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage rename configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/rename/config.yaml (if set)
  2. ~/.config/rename/config.yaml

Environment variables can override config file settings using the RENAME_ prefix:
  RENAME_NAMING_SEPARATOR=-
  RENAME_NAMING_INDEX=roman
  RENAME_JOURNAL_ENABLED=false`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Long:  `Display the effective configuration from defaults, config file, environment and flags.`,
			Args:  cobra.NoArgs,
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration file",
			Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
			Args: cobra.NoArgs,
			RunE: a.runConfigEdit,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create default configuration file",
			Long:  `Create a default configuration file if one doesn't exist.`,
			Args:  cobra.NoArgs,
			RunE:  a.runConfigInit,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Long:  `Display the path to the configuration file.`,
			Args:  cobra.NoArgs,
			RunE:  a.runConfigPath,
		},
	)
	return cmd
}

// runConfigShow displays the effective configuration.
func (a *app) runConfigShow(_ *cobra.Command, _ []string) error {
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(a.stdout, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(a.stdout, "# Config file: (using defaults, no file found)")
	}

	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(a.v.AllSettings()); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	var overrides []string
	for _, key := range a.v.AllKeys() {
		name := envName(key)
		if val, ok := os.LookupEnv(name); ok {
			overrides = append(overrides, name+"="+val)
		}
	}
	sort.Strings(overrides)

	fmt.Fprintln(a.stdout, "\n# Environment overrides:")
	if len(overrides) == 0 {
		fmt.Fprintln(a.stdout, "#   (none)")
	}
	for _, o := range overrides {
		fmt.Fprintf(a.stdout, "#   %s\n", o)
	}
	return nil
}

// runConfigEdit opens the config file in an editor.
func (a *app) runConfigEdit(_ *cobra.Command, _ []string) error {
	path, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	a.printVerbose("Opening %s with %s", path, editor)

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

// runConfigInit creates a default config file.
func (a *app) runConfigInit(_ *cobra.Command, _ []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		a.printInfo("Config file already exists: %s", path)
		a.printInfo("Use 'rename config edit' to modify it.")
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	a.printInfo("Created default config file: %s", path)
	return nil
}

// runConfigPath shows the config file path.
func (a *app) runConfigPath(_ *cobra.Command, _ []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	fmt.Fprintln(a.stdout, path)

	if _, err := os.Stat(path); err == nil {
		a.printVerbose("File exists")
	} else if os.IsNotExist(err) {
		a.printVerbose("File does not exist (will use defaults)")
	}
	return nil
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// envName returns the environment variable overriding a config key.
func envName(key string) string {
	return "RENAME_" + envReplacer.Replace(strings.ToUpper(key))
}
