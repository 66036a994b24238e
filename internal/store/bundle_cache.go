package store

import (
	"path/filepath"
	"sync"
	"time"

	"keyward/internal/domain"
	"keyward/internal/errs"
)

const bundleCacheFile = "bundle_cache.json"

// BundleCacheStore keeps peers' public bundles obtained out-of-band,
// each entry bounded by a TTL. Entries hold only public material, so
// the file is plain JSON.
type BundleCacheStore struct {
	dir string
	mu  sync.Mutex

	// now is the clock used for expiry checks; overridden in tests.
	now func() time.Time
}

// NewBundleCacheStore returns a BundleCacheStore rooted at dir.
func NewBundleCacheStore(dir string) *BundleCacheStore {
	return &BundleCacheStore{dir: dir, now: time.Now}
}

// Put stores a peer's bundle until now+ttl.
func (s *BundleCacheStore) Put(peer domain.UserID, bundle domain.PreKeyBundle, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[peer] = domain.CachedBundle{Bundle: bundle, ExpiresAt: s.now().Add(ttl)}
	return s.save(m)
}

// Get returns the cached bundle for peer. An entry past its TTL is
// evicted and reported as a miss carrying a STALE_BUNDLE error, which
// callers treat the same as a plain miss.
func (s *BundleCacheStore) Get(peer domain.UserID) (domain.PreKeyBundle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return domain.PreKeyBundle{}, false, err
	}
	entry, ok := m[peer]
	if !ok {
		return domain.PreKeyBundle{}, false, nil
	}
	if entry.Expired(s.now()) {
		delete(m, peer)
		if err := s.save(m); err != nil {
			return domain.PreKeyBundle{}, false, err
		}
		return domain.PreKeyBundle{}, false, errs.New(errs.CodeStaleBundle, "cached bundle past ttl")
	}
	return entry.Bundle, true, nil
}

// Invalidate drops the cached bundle for peer, if any.
func (s *BundleCacheStore) Invalidate(peer domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[peer]; !ok {
		return nil
	}
	delete(m, peer)
	return s.save(m)
}

func (s *BundleCacheStore) load() (map[domain.UserID]domain.CachedBundle, error) {
	m := map[domain.UserID]domain.CachedBundle{}
	if err := readJSON(filepath.Join(s.dir, bundleCacheFile), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *BundleCacheStore) save(m map[domain.UserID]domain.CachedBundle) error {
	return writeJSON(filepath.Join(s.dir, bundleCacheFile), m, 0o600)
}

// Compile-time assertion that BundleCacheStore implements domain.BundleCache.
var _ domain.BundleCache = (*BundleCacheStore)(nil)
