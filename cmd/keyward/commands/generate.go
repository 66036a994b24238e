package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate fresh prekey material and print the public bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			bundle, err := wire.Prekeys.GeneratePreKeyBundle(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				out, err := json.MarshalIndent(bundle, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			fmt.Printf("Generated bundle: signed=%d kyber=%d one-time=%d\n",
				bundle.SignedPreKeyID, bundle.KyberPreKeyID, bundle.OneTimePreKeyID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full bundle as JSON")
	return cmd
}
