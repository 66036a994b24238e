package app

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"keyward/internal/directory"
	"keyward/internal/domain"
	"keyward/internal/native"
	bundlesvc "keyward/internal/services/bundle"
	identitysvc "keyward/internal/services/identity"
	prekeysvc "keyward/internal/services/prekey"
	publishersvc "keyward/internal/services/publisher"
	rotationsvc "keyward/internal/services/rotation"
	"keyward/internal/store"
)

// DispatchSymbol is the name under which the record-lookup handler is
// exported for the crypto library's callback registration.
const DispatchSymbol = "keyward_dispatch_record_request"

// Wire bundles all stores, services, and clients.
type Wire struct {
	Log *logrus.Logger

	Identity  domain.IdentityService
	Prekeys   domain.PreKeyService
	Publisher domain.PublisherService
	Bundles   domain.BundleService
	Rotation  *rotationsvc.Scheduler

	Directory domain.Directory
	Bridge    *native.Bridge
	Cache     *native.KeyCache
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log := logrus.New()
	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		log.SetLevel(level)
	}

	device := cfg.DeviceID
	if device == 0 {
		device = domain.PrimaryDeviceID
	}

	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.Home, cfg.Passphrase)
	recordStore := store.NewRecordFileStore(cfg.Home, cfg.Passphrase, cfg.MaxOneTimePool)
	bundleCache := store.NewBundleCacheStore(cfg.Home)
	tokenStore := store.NewTokenFileStore(cfg.Home)

	// Native boundary, warmed cache and dispatch bridge
	boundary := native.NewLibrary()
	cache := native.NewKeyCache()
	bridge := native.NewBridge()
	native.ExportHandler(DispatchSymbol, cache.DispatchHandler())
	if err := bridge.RegisterDispatchByName(DispatchSymbol); err != nil {
		return nil, err
	}

	// Directory client (optional; nil while offline)
	var dir domain.Directory
	if cfg.DirectoryURL != "" {
		httpClient := cfg.HTTP
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		dir = directory.NewHTTPClient(cfg.DirectoryURL, httpClient)
	}

	// High-level services
	identitySvc := identitysvc.New(identityStore, boundary, cache, log)
	prekeySvc := prekeysvc.New(identitySvc, recordStore, boundary, cache, log, cfg.UserID, device)
	publisherSvc := publishersvc.New(dir, log, cfg.BundleTTL)
	bundleSvc := bundlesvc.New(bundleCache, tokenStore, dir, log)

	scheduler := rotationsvc.New(prekeySvc, publisherSvc, log, cfg.UserID)
	if cfg.RotateInterval > 0 {
		scheduler.Interval = cfg.RotateInterval
	}
	if cfg.RotateCheckEvery > 0 {
		scheduler.CheckEvery = cfg.RotateCheckEvery
	}
	if cfg.LowWater > 0 {
		scheduler.LowWater = cfg.LowWater
	}

	// Warm the dispatch cache before the crypto library can call back.
	if err := prekeySvc.WarmCache(); err != nil {
		log.WithError(err).Warn("dispatch cache not fully warmed")
	}

	return &Wire{
		Log:       log,
		Identity:  identitySvc,
		Prekeys:   prekeySvc,
		Publisher: publisherSvc,
		Bundles:   bundleSvc,
		Rotation:  scheduler,
		Directory: dir,
		Bridge:    bridge,
		Cache:     cache,
	}, nil
}
