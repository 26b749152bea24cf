package cmd

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "oscontrol",
	Short: "oscontrol creates, starts, stops and deletes OpenStack VMs",
	Long: `oscontrol drives VM lifecycle and image operations against an
OpenStack cloud, blocking until each operation reaches its target state.

Credentials come from the usual OS_* environment variables; defaults for
the image, key pair, flavor, network and image path come from an
oscontrol.yaml settings file next to the executable.`,
	// SilenceErrors is used to prevent cobra from printing the error,
	// as we handle it ourselves in the Execute function.
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Print the help message if no subcommand is provided
		return cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Give up waiting after this long (0 waits forever).")
}
