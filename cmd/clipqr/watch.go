package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/undefined-moe/ClipboardQRReader/internal/history"
	"github.com/undefined-moe/ClipboardQRReader/internal/qr"
	"github.com/undefined-moe/ClipboardQRReader/internal/rawclip"
	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
	"github.com/undefined-moe/ClipboardQRReader/internal/state"
	"github.com/undefined-moe/ClipboardQRReader/internal/wakeup"
	"github.com/undefined-moe/ClipboardQRReader/internal/watcher"
)

// drainInterval is the cadence at which this consumer drains the mailbox.
// Independent of the watcher's own wake-up mechanism.
const drainInterval = 200 * time.Millisecond

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the clipboard and print QR codes for every change",
		Long: `Runs the clipboard watcher in the foreground. Copied text is rendered
as a QR code on the terminal; copied images are scanned for QR codes and the
decoded payload, when found, becomes the reported clipboard value.

Change detection uses the platform's native mechanism where available
(clipboard-format listener on Windows, XFixes selection events on X11) and
falls back to polling everywhere else, including after any listener failure.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runWatch(v) },
	}

	f := cmd.Flags()
	f.Duration("interval", wakeup.DefaultPollInterval, "poll interval for the fallback source")
	f.String("history-db", defaultHistoryPath(), "history database path (empty disables history)")
	f.Bool("no-decode", false, "publish images as-is without scanning for QR codes")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runWatch(v *viper.Viper) error {
	setupLogging(v)

	interval := v.GetDuration("interval")
	slog.Info("clipqr starting", "version", Version, "interval", interval)

	opts := watcher.Options{
		Source:       wakeup.New(interval),
		Clipboard:    rawclip.New(),
		Mailbox:      state.New(),
		PollInterval: interval,
	}
	if !v.GetBool("no-decode") {
		opts.Decoder = qr.NewReader()
	}

	var store *history.Store
	if path := v.GetString("history-db"); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating history dir: %w", err)
		}
		var err error
		store, err = history.Open(path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer store.Close()
		opts.Recorder = store
	}

	w := watcher.New(opts)
	w.Start()
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// This loop is the CLI consumer: it drains the mailbox on its own tick
	// and renders. A GUI or tray consumer would Peek on its redraw tick
	// instead, leaving the unread flag to this primary consumer.
	gen := qr.NewGenerator(0)
	tick := time.NewTicker(drainInterval)
	defer tick.Stop()

	for {
		select {
		case s := <-sig:
			slog.Info("shutting down", "signal", s.String())
			return nil
		case <-tick.C:
			entry, fresh := opts.Mailbox.Drain()
			if !fresh || entry == nil {
				continue
			}
			render(gen, entry)
		}
	}
}

// render prints one drained clipboard change.
func render(gen *qr.Generator, e *state.Entry) {
	switch e.Snapshot.Kind() {
	case snapshot.KindText:
		text := e.Snapshot.Text()
		if e.Status.Outcome == snapshot.DecodeFound {
			fmt.Printf("\nQR code decoded from clipboard image:\n%s\n", text)
		} else {
			fmt.Printf("\nClipboard text updated: %s\n", text)
		}
		code, err := gen.Terminal(text)
		if err != nil {
			slog.Error("QR generation failed", "err", err)
			return
		}
		fmt.Println(code)
	case snapshot.KindImage:
		w, h := e.Snapshot.ImageSize()
		fmt.Printf("\nClipboard image updated (%dx%d), QR scan: %s\n", w, h, e.Status.Outcome)
		if e.Status.Outcome == snapshot.DecodeErr {
			slog.Warn("QR scan failed", "err", e.Status.Message)
		}
	default:
		fmt.Println("\nClipboard cleared")
	}
}
