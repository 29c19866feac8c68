package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/undefined-moe/ClipboardQRReader/internal/qr"
	"github.com/undefined-moe/ClipboardQRReader/internal/rawclip"
	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

func newScanCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a QR code from the clipboard image (or a file)",
		Long: `Decodes QR codes from the image currently on the clipboard, or from an
image file with --file. Prints every payload found; --copy puts the first
payload back onto the clipboard.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runScan(v) },
	}

	f := cmd.Flags()
	f.String("file", "", "scan this image file instead of the clipboard")
	f.Bool("copy", false, "copy the first decoded payload to the clipboard")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runScan(v *viper.Viper) error {
	setupLogging(v)
	reader := qr.NewReader()

	if path := v.GetString("file"); path != "" {
		text, found, err := reader.DecodeFile(path)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no QR code found in %s", path)
		}
		fmt.Println(text)
		return copyBack(v, text)
	}

	clip := rawclip.New()
	snap, err := clip.Read()
	if err != nil {
		return fmt.Errorf("reading clipboard: %w", err)
	}
	switch snap.Kind() {
	case snapshot.KindText:
		return fmt.Errorf("clipboard holds text, not an image")
	case snapshot.KindEmpty:
		return fmt.Errorf("clipboard is empty")
	}

	payloads, err := reader.DecodeAll(snap)
	if err != nil {
		return fmt.Errorf("scanning clipboard image: %w", err)
	}
	if len(payloads) == 0 {
		w, h := snap.ImageSize()
		return fmt.Errorf("no QR code found in clipboard image (%dx%d)", w, h)
	}
	for _, p := range payloads {
		fmt.Println(p)
	}
	if v.GetBool("copy") {
		if err := clip.WriteText(payloads[0]); err != nil {
			return fmt.Errorf("copying payload: %w", err)
		}
	}
	return nil
}

// copyBack writes text to the clipboard when --copy is set. Used on the
// --file path, where no clipboard handle exists yet.
func copyBack(v *viper.Viper, text string) error {
	if !v.GetBool("copy") {
		return nil
	}
	if err := rawclip.New().WriteText(text); err != nil {
		return fmt.Errorf("copying payload: %w", err)
	}
	return nil
}
