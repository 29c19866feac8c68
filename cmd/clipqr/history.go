package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/undefined-moe/ClipboardQRReader/internal/history"
)

func newHistoryCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "List recent clipboard changes recorded by watch",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runHistory(v) },
	}

	f := cmd.Flags()
	f.String("history-db", defaultHistoryPath(), "history database path")
	f.Int("limit", 20, "maximum number of entries to list")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runHistory(v *viper.Viper) error {
	setupLogging(v)

	store, err := history.Open(v.GetString("history-db"))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(v.GetInt("limit"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no history recorded yet")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-5s", e.Time.Format("2006-01-02 15:04:05"), e.Kind)
		switch {
		case e.Preview != "":
			line += "  " + e.Preview
		case e.Width > 0:
			line += fmt.Sprintf("  %dx%d", e.Width, e.Height)
		}
		if e.Decode != "" {
			line += fmt.Sprintf("  [qr: %s]", e.Decode)
		}
		fmt.Println(line)
	}
	return nil
}
