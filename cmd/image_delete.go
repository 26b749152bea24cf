package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"oscontrol/internal/errors"
)

// imageDeleteCmd represents the image delete command
var imageDeleteCmd = &cobra.Command{
	Use:   "delete <image-name>",
	Short: "Deletes a disk image",
	Long:  `Deletes the named disk image. A missing image is an error.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		color.Cyan("i Deleting image: %s", name)

		ctx, stop := opCtx()
		defer stop()

		_, ops, err := newEnv(ctx)
		if err != nil {
			return errors.E("image-delete", err)
		}

		if err := ops.DeleteImage(ctx, name); err != nil {
			return err
		}

		color.Green("✔ Image %q deleted.", name)
		return nil
	},
}

func init() {
	imageCmd.AddCommand(imageDeleteCmd)
}
