package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"keyward/internal/domain"
)

func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Generate a prekey bundle and publish it to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if userID == "" {
				return fmt.Errorf("user id required (-u)")
			}

			bundle, err := wire.Prekeys.GeneratePreKeyBundle(cmd.Context())
			if err != nil {
				return err
			}
			if err := wire.Publisher.Publish(cmd.Context(), domain.UserID(userID), bundle); err != nil {
				return err
			}
			fmt.Println("Bundle published")
			return nil
		},
	}
}
