package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"oscontrol/internal/errors"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <vm-name>",
	Short: "Shows the status of a VM",
	Long:  `Shows the ID, lifecycle status, power state and network address of a VM.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		ctx, stop := opCtx()
		defer stop()

		_, ops, err := newEnv(ctx)
		if err != nil {
			return errors.E("vm-status", err)
		}

		vm, err := ops.Status(ctx, name)
		if err != nil {
			return err
		}
		if vm == nil {
			color.Yellow("No VM found with the name %q.", name)
			return nil
		}

		power := color.RedString("stopped")
		if vm.Running {
			power = color.GreenString("running")
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"FIELD", "VALUE"})
		table.Append([]string{"id", vm.ID})
		table.Append([]string{"name", vm.Name})
		table.Append([]string{"status", vm.Status})
		table.Append([]string{"power_state", power})
		table.Append([]string{"network", vm.Network})
		table.Append([]string{"ip", vm.IP})
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
