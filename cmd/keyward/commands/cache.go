package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"keyward/internal/domain"
)

func cacheCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "cache [peer] [bundle.json]",
		Short: "Cache a peer's bundle received out-of-band for offline bootstrap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			peer := domain.UserID(args[0])

			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var bundle domain.PreKeyBundle
			if err := json.Unmarshal(raw, &bundle); err != nil {
				return err
			}

			if err := wire.Bundles.CacheRemoteBundle(peer, bundle, ttl); err != nil {
				return err
			}
			fmt.Printf("Bundle for %s cached\n", peer)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "how long the cached bundle stays usable")
	return cmd
}
