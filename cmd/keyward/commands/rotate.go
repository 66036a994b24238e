package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func rotateCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Rotate prekey material once, or keep rotating with --watch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if watch {
				return wire.Rotation.Run(cmd.Context())
			}
			if !wire.Rotation.RotateNow(cmd.Context()) {
				return fmt.Errorf("rotation failed")
			}
			fmt.Println("Prekey material rotated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "run the rotation scheduler until interrupted")
	return cmd
}
