package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables set by goreleaser or go build -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Display the version, commit hash, and build date of rename.`,
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "rename %s\n", version)
			fmt.Fprintf(a.stdout, "  commit:  %s\n", commit)
			fmt.Fprintf(a.stdout, "  built:   %s\n", date)
			fmt.Fprintf(a.stdout, "  go:      %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
