package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"keyward/internal/domain"
)

func fetchCmd() *cobra.Command {
	var inviteToken string

	cmd := &cobra.Command{
		Use:   "fetch [peer]",
		Short: "Resolve a peer's prekey bundle (cache first, then directory)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peer := domain.UserID(args[0])

			if inviteToken != "" {
				if err := wire.Bundles.CacheInviteToken(peer, domain.InviteToken(inviteToken)); err != nil {
					return err
				}
			}

			bundle, err := wire.Bundles.Fetch(cmd.Context(), peer)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&inviteToken, "invite-token", "", "invitation token proving fetch eligibility")
	return cmd
}
