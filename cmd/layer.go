package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/layer"
	"github.com/yusshu/featherpng/internal/pngimage"
	"github.com/yusshu/featherpng/internal/pngproc"
	"github.com/yusshu/featherpng/internal/profile"
)

var (
	layerOut    string
	layerLevel  int
	layerSerial bool
	layerComp   string
)

var layerCmd = &cobra.Command{
	Use:   "layer <base.png> <overlay.png>",
	Short: "Composite a transparent overlay over a base image",
	Long: `Draws overlay on top of base and writes a non-interlaced 8-bit RGBA PNG.
Both images must have the same size. The base must be truecolor (alpha
optional), the overlay truecolor with alpha, at 8 or 16 bits per sample.`,
	Args: cobra.ExactArgs(2),
	RunE: runLayer,
}

func init() {
	f := layerCmd.Flags()
	f.StringVarP(&layerOut, "out", "o", "layered.png", "output file")
	f.IntVarP(&layerLevel, "level", "l", deflate.LevelSearch, "zlib level 0-9, -1 searches 9..1")
	f.BoolVar(&layerSerial, "serial", false, "run compression attempts one after another")
	f.StringVar(&layerComp, "compressor", profile.CompressorStandard, "standard or blocksplit")
	rootCmd.AddCommand(layerCmd)
}

func runLayer(_ *cobra.Command, args []string) error {
	base, err := pngimage.DecodeFile(args[0])
	if err != nil {
		return err
	}
	overlay, err := pngimage.DecodeFile(args[1])
	if err != nil {
		return err
	}

	c, err := profile.Profile{Compressor: layerComp}.NewCompressor(warnf)
	if err != nil {
		return err
	}
	l := layer.New(pngproc.NewContext(c, warnf))

	logVerbose("layering %s over %s", args[1], args[0])
	out, err := l.Layer(base, overlay, layer.Options{Level: layerLevel, Concurrent: !layerSerial})
	if err != nil {
		return fmt.Errorf("layer: %w", err)
	}
	if err := out.WriteFile(layerOut); err != nil {
		return fmt.Errorf("write %s: %w", layerOut, err)
	}
	logVerbose("wrote %s", layerOut)
	return nil
}
