package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate identity keys and store them securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if _, err := wire.Identity.GetOrCreate(cmd.Context()); err != nil {
				return err
			}
			fp, err := wire.Identity.FingerprintIdentity(cmd.Context())
			if err != nil {
				return err
			}
			regID, err := wire.Identity.RegistrationID(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Identity created.\nFingerprint: %s\nRegistration id: %d\n", fp, regID)
			return nil
		},
	}
}
