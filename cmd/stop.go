package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"oscontrol/internal/errors"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop <vm-name>",
	Short: "Stops a VM",
	Long: `Stops a VM and blocks until it has stopped. Stopping a VM that is
already stopped is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		color.Cyan("i Stopping VM: %s", name)

		ctx, stop := opCtx()
		defer stop()

		_, ops, err := newEnv(ctx)
		if err != nil {
			return errors.E("vm-stop", err)
		}

		return ops.Stop(ctx, name)
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
