package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"oscontrol/internal/errors"
)

var imagePath string

// imageUploadCmd represents the image upload command
var imageUploadCmd = &cobra.Command{
	Use:   "upload <image-name>",
	Short: "Uploads a disk image",
	Long: `Uploads a local file as a raw disk image. An existing image with the
same name is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		ctx, stop := opCtx()
		defer stop()

		cfg, ops, err := newEnv(ctx)
		if err != nil {
			return errors.E("image-upload", err)
		}

		path := fallback(imagePath, cfg.Defaults.ImagePath)
		if path == "" {
			return errors.E("image-upload", fmt.Errorf("no --image-path given and no image_path in the settings file"))
		}

		color.Cyan("i Uploading image %s from %s", name, path)
		if err := ops.UploadImage(ctx, name, path); err != nil {
			return err
		}

		color.Green("✔ Image %q uploaded.", name)
		return nil
	},
}

func init() {
	imageCmd.AddCommand(imageUploadCmd)
	imageUploadCmd.Flags().StringVar(&imagePath, "image-path", "", "Path of the file to upload (defaults to the settings file).")
}
