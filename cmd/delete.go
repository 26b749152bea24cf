package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"oscontrol/internal/errors"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <vm-name>",
	Short: "Deletes a VM",
	Long: `Deletes a VM and blocks until it is gone. Deleting a VM that does
not exist is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		color.Cyan("i Deleting VM: %s", name)

		ctx, stop := opCtx()
		defer stop()

		_, ops, err := newEnv(ctx)
		if err != nil {
			return errors.E("vm-delete", err)
		}

		return ops.Delete(ctx, name)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
