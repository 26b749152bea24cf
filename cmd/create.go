package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"oscontrol/internal/cloud"
	"oscontrol/internal/errors"
)

var (
	createImage   string
	createKeyPair string
	createFlavor  string
	createNetwork string
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <vm-name>",
	Short: "Creates a new VM",
	Long: `Creates a new VM from an image and blocks until the VM reports ACTIVE
and answers ping. The assigned IP address is printed on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		color.Cyan("i Creating VM: %s", name)

		ctx, stop := opCtx()
		defer stop()

		cfg, ops, err := newEnv(ctx)
		if err != nil {
			return errors.E("vm-create", err)
		}

		ip, err := ops.Create(ctx, cloud.CreateOpts{
			Name:    name,
			Image:   fallback(createImage, cfg.Defaults.Image),
			KeyPair: fallback(createKeyPair, cfg.Defaults.KeyPair),
			Flavor:  fallback(createFlavor, cfg.Defaults.Flavor),
			Network: fallback(createNetwork, cfg.Defaults.Network),
		})
		if err != nil {
			return err
		}

		// Bare IP on stdout so scripts can capture it.
		fmt.Println(ip)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createImage, "image", "", "Name of the image to boot from (defaults to the settings file).")
	createCmd.Flags().StringVar(&createKeyPair, "key-pair", "", "Name of the key pair to inject (defaults to the settings file).")
	createCmd.Flags().StringVar(&createFlavor, "flavor", "", "Name of the flavor to use (defaults to the settings file).")
	createCmd.Flags().StringVar(&createNetwork, "network", "", "Name of the network to connect to (defaults to the settings file).")
}
