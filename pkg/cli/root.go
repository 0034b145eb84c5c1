// Package cli implements the highway command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"highway_router/pkg/config"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// NewRootCmd builds the highway command tree.
func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:     "highway",
		Version: version,
		Short:   "Plan minimum-stop journeys between stations on a highway",
		Long: `highway keeps a set of service stations along one road, each holding
vehicles of various ranges, and answers which stations a traveller must
change vehicle at to get from one station to another with the fewest stops.

Requests arrive as text lines (run), over HTTP (serve), or are generated
from OpenStreetMap data (import).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	// Registered now so command lookup knows they take no value.
	root.InitDefaultHelpFlag()
	root.InitDefaultVersionFlag()
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file read before flags are applied")

	loadConfig := func() (config.Config, error) {
		return config.Load(envFile)
	}

	root.AddCommand(
		newRunCmd(loadConfig),
		newServeCmd(loadConfig),
		newImportCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
)

// PrintError prints an error message to stderr.
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printSuccess(cmd *cobra.Command, format string, args ...any) {
	_, _ = successColor.Fprintf(cmd.ErrOrStderr(), "✓ "+format+"\n", args...)
}

func printWarning(cmd *cobra.Command, format string, args ...any) {
	_, _ = warningColor.Fprintf(cmd.ErrOrStderr(), "⚠ "+format+"\n", args...)
}

func printLabelValue(cmd *cobra.Command, label string, value any) {
	w := cmd.ErrOrStderr()
	_, _ = labelColor.Fprintf(w, "  %s: ", label)
	fmt.Fprintln(w, value)
}
