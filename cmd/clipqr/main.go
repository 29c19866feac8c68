// clipqr: clipboard-to-QR watcher.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipqr",
		Short: "Watch the clipboard and turn it into QR codes",
		Long: `clipqr observes the system clipboard, detects changes (native change
events where the platform has them, polling everywhere else), renders copied
text as QR codes and decodes QR codes out of copied images.

Run "clipqr watch" for the continuous foreground loop. Use "clipqr scan" and
"clipqr encode" as one-shot tools, and "clipqr history" to list past changes.

Config file search order (first found wins):
  /etc/clipqr/clipqr.toml
  $HOME/.config/clipqr/clipqr.toml
  path supplied via --config

All flags can be set via CLIPQR_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newWatchCmd(),
		newScanCmd(),
		newEncodeCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipqr %s\n", Version)
		},
	}
}
