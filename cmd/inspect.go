package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yusshu/featherpng/internal/pngimage"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.png>",
	Short: "List the chunks of a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	img, err := pngimage.DecodeFile(args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	var total int64
	for _, c := range img.Chunks() {
		fmt.Printf("  %s\n", c)
		total += int64(len(c.Data)) + 12
	}
	fmt.Println()
	fmt.Printf("  %d chunks, %s\n", len(img.Chunks()), formatBytes(total+int64(len(pngimage.Signature))))
	if h, ok := img.Header(); ok {
		fmt.Printf("  %d bits per pixel, interlaced: %v\n", h.SampleBitCount(), h.Interlaced())
	}
	fmt.Println()
	return nil
}
