package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"keyward/internal/domain"
	"keyward/internal/errs"
	"keyward/internal/native"
	"keyward/internal/services/identity"
	"keyward/internal/store"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestGetOrCreate_IsStableAcrossCalls(t *testing.T) {
	ctx := context.Background()
	st := store.NewIdentityFileStore(t.TempDir(), "passphrase")
	svc := identity.New(st, native.NewLibrary(), nil, quietLog())

	first, err := svc.GetOrCreate(ctx)
	require.NoError(t, err)
	require.False(t, first.IsZero())

	second, err := svc.GetOrCreate(ctx)
	require.NoError(t, err)
	require.Equal(t, first.Public, second.Public)
	require.Equal(t, first.Private, second.Private)
	require.Equal(t, first.SigningPublic, second.SigningPublic)
	require.Equal(t, first.SigningPrivate, second.SigningPrivate)
}

func TestGetOrCreate_SurvivesServiceRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := identity.New(store.NewIdentityFileStore(dir, "pw"), native.NewLibrary(), nil, quietLog()).GetOrCreate(ctx)
	require.NoError(t, err)

	second, err := identity.New(store.NewIdentityFileStore(dir, "pw"), native.NewLibrary(), nil, quietLog()).GetOrCreate(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRegistrationID_GeneratedOnceWithinRange(t *testing.T) {
	ctx := context.Background()
	st := store.NewIdentityFileStore(t.TempDir(), "pw")
	svc := identity.New(st, native.NewLibrary(), nil, quietLog())

	id, err := svc.RegistrationID(ctx)
	require.NoError(t, err)
	require.True(t, id.Valid())

	again, err := svc.RegistrationID(ctx)
	require.NoError(t, err)
	require.Equal(t, id, again)
}

// failingIdentityStore refuses all writes but reads cleanly, modelling a
// full or read-only keystore volume.
type failingIdentityStore struct{}

func (failingIdentityStore) SaveIdentity(domain.IdentityKeyPair) error { return errors.New("disk full") }
func (failingIdentityStore) LoadIdentity() (domain.IdentityKeyPair, bool, error) {
	return domain.IdentityKeyPair{}, false, nil
}
func (failingIdentityStore) SaveRegistrationID(domain.RegistrationID) error {
	return errors.New("disk full")
}
func (failingIdentityStore) LoadRegistrationID() (domain.RegistrationID, bool, error) {
	return 0, false, nil
}

func TestGetOrCreate_PersistFailureStillReturnsUsablePair(t *testing.T) {
	ctx := context.Background()
	svc := identity.New(failingIdentityStore{}, native.NewLibrary(), nil, quietLog())

	pair, err := svc.GetOrCreate(ctx)
	require.Error(t, err)
	require.Equal(t, errs.CodePersistenceFailure, errs.CodeOf(err))
	require.False(t, pair.IsZero())

	// Within the process lifetime the pair stays stable.
	again, err := svc.GetOrCreate(ctx)
	require.NoError(t, err)
	require.Equal(t, pair, again)
}

func TestFingerprintIdentity_IsStable(t *testing.T) {
	ctx := context.Background()
	st := store.NewIdentityFileStore(t.TempDir(), "pw")
	svc := identity.New(st, native.NewLibrary(), nil, quietLog())

	fp1, err := svc.FingerprintIdentity(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, fp1)

	fp2, err := svc.FingerprintIdentity(ctx)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
}

func TestGetOrCreate_WarmsDispatchCache(t *testing.T) {
	ctx := context.Background()
	cache := native.NewKeyCache()
	st := store.NewIdentityFileStore(t.TempDir(), "pw")
	svc := identity.New(st, native.NewLibrary(), cache, quietLog())

	pair, err := svc.GetOrCreate(ctx)
	require.NoError(t, err)

	warmed, ok := cache.Identity()
	require.True(t, ok)
	require.Equal(t, pair.Public, warmed.Public)
}
