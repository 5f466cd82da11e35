// Package cli provides the command-line interface for colourbalance.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourbalance/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "colourbalance",
	Short: "Score images against the 60-30-10 colour rule",
	Long: `colourbalance extracts the dominant colours of an image and checks how
closely they follow the 60-30-10 rule: one dominant colour covering about 60%
of the picture, a secondary colour around 30% and an accent around 10%.

Colours are grouped perceptually (CIEDE2000), so near-identical shades count
as one colour.`,
	Version:      version.GetInfo().Version,
	SilenceUsage: true,
}

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the logger for a command from the global verbosity flags.
func newLogger(cmd *cobra.Command, name string) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: cmd.ErrOrStderr(),
		Level:  logLevel(verbose, quiet),
	})
}

func logLevel(verbose, quiet bool) hclog.Level {
	switch {
	case verbose:
		return hclog.Debug
	case quiet:
		return hclog.Warn
	default:
		return hclog.Info
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeLine(cmd.OutOrStdout(), version.String())
	},
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
