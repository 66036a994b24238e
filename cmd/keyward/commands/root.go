package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keyward/internal/app"
	"keyward/internal/domain"
)

var (
	home       string
	passphrase string
	userID     string
	deviceID   uint32
	dirURL     string
	logLevel   string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "keyward",
		Short: "Key-agreement and session-bootstrap management",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".keyward")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			wire, err = app.NewWire(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.keyward)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the key store")
	root.PersistentFlags().StringVarP(&userID, "user", "u", "", "our directory user id")
	root.PersistentFlags().Uint32Var(&deviceID, "device", uint32(domain.PrimaryDeviceID), "our device id")
	root.PersistentFlags().StringVar(&dirURL, "directory", "", "directory base URL (empty = offline)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		generateCmd(),
		publishCmd(),
		fetchCmd(),
		cacheCmd(),
		rotateCmd(),
	)
	return root.Execute()
}

// loadConfig merges an optional keyward.yaml in the home dir under the
// command-line flags; flags win when set explicitly.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	v := viper.New()
	v.SetConfigName("keyward")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)

	v.SetDefault("directory_url", "")
	v.SetDefault("user_id", "")
	v.SetDefault("device_id", uint32(domain.PrimaryDeviceID))
	v.SetDefault("log_level", "info")
	v.SetDefault("bundle_ttl", 7*24*time.Hour)
	v.SetDefault("cache_ttl", 24*time.Hour)
	v.SetDefault("rotate_interval", 7*24*time.Hour)
	v.SetDefault("rotate_check_every", time.Minute)
	v.SetDefault("low_water", 10)
	v.SetDefault("max_one_time_pool", 100)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return app.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := app.Config{
		Home:             home,
		Passphrase:       passphrase,
		UserID:           domain.UserID(v.GetString("user_id")),
		DeviceID:         domain.DeviceID(v.GetUint32("device_id")),
		DirectoryURL:     v.GetString("directory_url"),
		BundleTTL:        v.GetDuration("bundle_ttl"),
		CacheTTL:         v.GetDuration("cache_ttl"),
		RotateInterval:   v.GetDuration("rotate_interval"),
		RotateCheckEvery: v.GetDuration("rotate_check_every"),
		LowWater:         v.GetInt("low_water"),
		MaxOneTimePool:   v.GetInt("max_one_time_pool"),
		LogLevel:         v.GetString("log_level"),
	}

	if cmd.Flags().Changed("user") || cfg.UserID == "" {
		cfg.UserID = domain.UserID(userID)
	}
	if cmd.Flags().Changed("device") {
		cfg.DeviceID = domain.DeviceID(deviceID)
	}
	if cmd.Flags().Changed("directory") || cfg.DirectoryURL == "" {
		cfg.DirectoryURL = dirURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func requirePassphrase() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return nil
}
