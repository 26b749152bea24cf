package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"oscontrol/internal/errors"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <vm-name>",
	Short: "Starts a VM",
	Long: `Starts a VM and blocks until it is running. Starting a VM that is
already running is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		color.Cyan("i Starting VM: %s", name)

		ctx, stop := opCtx()
		defer stop()

		_, ops, err := newEnv(ctx)
		if err != nil {
			return errors.E("vm-start", err)
		}

		return ops.Start(ctx, name)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
