package app

import (
	"net/http"
	"time"

	"keyward/internal/domain"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string // config directory, e.g. $HOME/.keyward
	Passphrase string // protects the encrypted key files

	UserID   domain.UserID   // our own directory identity
	DeviceID domain.DeviceID // our device id, defaults to primary

	DirectoryURL string       // directory base URL; empty means offline
	HTTP         *http.Client // optional; defaults to http.DefaultClient

	BundleTTL time.Duration // directory row expiry, default 7d
	CacheTTL  time.Duration // offline bundle cache TTL, default 24h

	RotateInterval   time.Duration // scheduled rotation, default 7d
	RotateCheckEvery time.Duration // pool poll cadence, default 1m
	LowWater         int           // one-time pool low-water mark
	MaxOneTimePool   int           // one-time record arena bound

	LogLevel string // logrus level name, default "info"
}
