// Command svgpp rasterizes SVG documents to PNG.
package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgpp/svgrender"
	"github.com/benoitkugler/svgpp/svgxml"
)

var (
	strict bool
	quiet  bool
)

func main() {
	root := &cobra.Command{
		Use:           "svgpp",
		Short:         "svgpp rasterizes SVG documents to PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	render := &cobra.Command{
		Use:   "render <input.svg> [<output.png>]",
		Short: "rasterize an SVG file to PNG",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := "svgpp.png"
			if len(args) == 2 {
				out = args[1]
			}
			return renderFile(args[0], out)
		},
	}
	render.Flags().BoolVar(&strict, "strict", false, "escalate non-fatal conditions to errors")
	render.Flags().BoolVar(&quiet, "quiet", false, "suppress warning diagnostics")

	root.AddCommand(render)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "svgpp:", err)
		os.Exit(1)
	}
}

func renderFile(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer in.Close()

	xmlDoc, err := svgxml.Parse(in)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", inPath, err)
	}

	logLevel := zerolog.WarnLevel
	if quiet {
		logLevel = zerolog.Disabled
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(logLevel).With().Timestamp().Logger()

	mode := svgrender.Warn
	if strict {
		mode = svgrender.Strict
	}
	doc := svgrender.NewDocument(xmlDoc, mode, logger)

	buf, err := svgrender.Render(doc, xmlDoc.Root)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", inPath, err)
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer outFile.Close()

	if err := png.Encode(outFile, buf.Image()); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	return nil
}
