package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/undefined-moe/ClipboardQRReader/internal/qr"
	"github.com/undefined-moe/ClipboardQRReader/internal/rawclip"
	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

func newEncodeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Render text as a QR code (terminal, PNG, or SVG)",
		Long: `Renders the given text as a QR code, falling back to the current
clipboard text when no argument is supplied. The default is a terminal rendering;
--png and --svg write image files into the output directory, named by
content hash so the same text always maps to the same file.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runEncode(v, args) },
	}

	f := cmd.Flags()
	f.Bool("png", false, "write a PNG file instead of printing to the terminal")
	f.Bool("svg", false, "write an SVG file instead of printing to the terminal")
	f.String("out", "output", "directory for generated files")
	f.Int("size", qr.DefaultImageSize, "side length in pixels of generated images")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runEncode(v *viper.Viper, args []string) error {
	setupLogging(v)

	text := strings.Join(args, " ")
	if text == "" {
		snap, err := rawclip.New().Read()
		if err != nil {
			return fmt.Errorf("reading clipboard: %w", err)
		}
		if snap.Kind() != snapshot.KindText {
			return fmt.Errorf("clipboard holds no text; pass the text as an argument")
		}
		text = snap.Text()
	}

	gen := qr.NewGenerator(v.GetInt("size"))
	dir := v.GetString("out")

	wrote := false
	if v.GetBool("png") {
		path, err := gen.SavePNG(dir, text)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		wrote = true
	}
	if v.GetBool("svg") {
		path, err := gen.SaveSVG(dir, text)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		wrote = true
	}
	if wrote {
		return nil
	}

	code, err := gen.Terminal(text)
	if err != nil {
		return err
	}
	fmt.Println(code)
	return nil
}
