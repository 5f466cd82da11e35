package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/colourbalance/internal/balance"
	"github.com/jmylchreest/colourbalance/internal/image"
	"github.com/jmylchreest/colourbalance/internal/pipeline"
)

var (
	analyzeTuning  tuningFlags
	analyzeFormat  string
	analyzeOutput  string
	analyzeSwatch  string
	analyzePreview string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <image|url>",
	Short: "Check an image against the 60-30-10 rule",
	Long: `Analyze an image and report how its dominant, secondary and accent colours
compare to the 60-30-10 targets.

The image is downscaled, lightly blurred and split into superpixels. The
superpixel colours are clustered with k-means, perceptually similar clusters
are merged, and the three largest colours are scored against the targets.

Supported image formats: JPEG, PNG, GIF, WebP

Environment:
  COLOURBALANCE_CLUSTERS, COLOURBALANCE_MERGE_DELTA,
  COLOURBALANCE_SMALL_THRESHOLD, COLOURBALANCE_TOLERANCE,
  COLOURBALANCE_SEED override the defaults; flags override both.

Examples:
  # Analyze a local image
  colourbalance analyze poster.png

  # Merge more aggressively and allow 10 points of slack
  colourbalance analyze --merge-delta 20 --tolerance 10 room.jpg

  # JSON output to a file, plus a swatch of the main colours
  colourbalance analyze -f json -o result.json --swatch swatch.png photo.webp

  # Fetch from a URL with a different target split
  colourbalance analyze --targets 70,20,10 https://example.com/image.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeTuning.register(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", formatText, "output format (text, json)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "output file (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeSwatch, "swatch", "", "write a swatch image of the main colours to this file")
	analyzeCmd.Flags().StringVar(&analyzePreview, "preview", "auto", "show colour previews in the text report (auto, always, never)")
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	source := args[0]
	logger := newLogger(cmd, "analyze")

	if err := image.ValidateImagePath(source); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	cfg, opts, err := analyzeTuning.resolve(cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	preview, err := usePreview(analyzePreview, analyzeOutput)
	if err != nil {
		return err
	}

	analyzer, err := balance.New(cfg, balance.WithLogger(logger.Named("balance")))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	runner, err := pipeline.NewRunner(analyzer, opts, logger)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("loading image", "source", source)
	img, err := image.NewSmartLoader().Load(cmd.Context(), source)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	report, err := runner.Run(cmd.Context(), img, source)
	if err != nil {
		return fmt.Errorf("failed to analyze image: %w", err)
	}

	output, err := formatReport(report, analyzeFormat, preview)
	if err != nil {
		return err
	}

	if analyzeSwatch != "" {
		if err := image.SaveSwatch(analyzeSwatch, pipeline.Swatches(report.Result), 600, 100); err != nil {
			return err
		}
		logger.Info("wrote swatch", "path", analyzeSwatch)
	}

	if analyzeOutput != "" {
		if err := os.WriteFile(analyzeOutput, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("wrote report", "path", analyzeOutput)
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}

// usePreview resolves the --preview mode. In auto mode previews are shown
// only when writing to a terminal.
func usePreview(mode, output string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return output == "" && term.IsTerminal(int(os.Stdout.Fd())), nil
	default:
		return false, fmt.Errorf("invalid preview mode: %s (valid: auto, always, never)", mode)
	}
}
