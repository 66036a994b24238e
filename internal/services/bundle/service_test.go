package bundle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"keyward/internal/crypto"
	"keyward/internal/directory"
	"keyward/internal/domain"
	"keyward/internal/errs"
	"keyward/internal/services/bundle"
	"keyward/internal/store"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// signedBundle builds a bundle whose prekey signatures verify against
// its signing key.
func signedBundle(t *testing.T, peer domain.UserID, opkID domain.RecordID) domain.PreKeyBundle {
	t.Helper()
	signPriv, signPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	_, signedPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	b := domain.PreKeyBundle{
		UserID:         peer,
		DeviceID:       domain.PrimaryDeviceID,
		RegistrationID: 77,
		IdentityKey:    signedPub,
		SigningKey:     signPub,

		SignedPreKeyID:        1,
		SignedPreKey:          signedPub,
		SignedPreKeySignature: crypto.SignEd25519(signPriv, signedPub),
	}
	if opkID != 0 {
		b.OneTimePreKeyID = opkID
		b.OneTimePreKey = signedPub
	}
	return b
}

func newService(t *testing.T, dir domain.Directory) *bundle.Service {
	t.Helper()
	base := t.TempDir()
	return bundle.New(store.NewBundleCacheStore(base), store.NewTokenFileStore(base), dir, quietLog())
}

func TestFetch_UnknownPeerIsBundleNotFound(t *testing.T) {
	svc := newService(t, directory.NewMemory())

	_, err := svc.Fetch(context.Background(), "stranger")
	require.Error(t, err)
	require.Equal(t, errs.CodeBundleNotFound, errs.CodeOf(err))
}

func TestFetch_ResolvesFromDirectory(t *testing.T) {
	ctx := context.Background()
	engine := directory.NewMemory()
	want := signedBundle(t, "bob", 9)
	require.NoError(t, engine.PublishBundle(ctx, "bob", domain.PrimaryDeviceID, want, time.Now().Add(time.Hour)))

	svc := newService(t, engine)
	got, err := svc.Fetch(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, want.SignedPreKeyID, got.SignedPreKeyID)
	require.Equal(t, domain.RecordID(9), got.OneTimePreKeyID)
}

func TestFetch_OneTimePreKeyServedOnce(t *testing.T) {
	ctx := context.Background()
	engine := directory.NewMemory()
	require.NoError(t, engine.PublishBundle(ctx, "bob", domain.PrimaryDeviceID, signedBundle(t, "bob", 9), time.Now().Add(time.Hour)))

	first, err := newService(t, engine).Fetch(ctx, "bob")
	require.NoError(t, err)
	require.True(t, first.HasOneTimePreKey())

	// The first fetch retires the row, so a second party republishing
	// never re-serves the same one-time prekey. Depending on directory
	// semantics the peer either gets the stripped bundle or none.
	second, err := newService(t, engine).Fetch(ctx, "bob")
	if err != nil {
		require.Equal(t, errs.CodeBundleNotFound, errs.CodeOf(err))
	} else {
		require.NotEqual(t, first.OneTimePreKeyID, second.OneTimePreKeyID)
	}
}

func TestFetch_OfflineCacheServesWithoutDirectory(t *testing.T) {
	ctx := context.Background()
	want := signedBundle(t, "bob", 0)

	svc := newService(t, nil)
	require.NoError(t, svc.CacheRemoteBundle("bob", want, time.Hour))

	got, err := svc.Fetch(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, want.SignedPreKeyID, got.SignedPreKeyID)
}

func TestFetch_ExpiredCacheEntryWhileOffline(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	require.NoError(t, svc.CacheRemoteBundle("bob", signedBundle(t, "bob", 0), 30*time.Millisecond))
	time.Sleep(60 * time.Millisecond)

	_, err := svc.Fetch(ctx, "bob")
	require.Error(t, err)
	require.Equal(t, errs.CodeBundleNotFound, errs.CodeOf(err))
}

func TestFetch_NoCacheAndNoDirectory(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Fetch(context.Background(), "bob")
	require.Error(t, err)
	require.Equal(t, errs.CodeBundleNotFound, errs.CodeOf(err))
}

func TestCacheRemoteBundle_RejectsBadSignature(t *testing.T) {
	svc := newService(t, nil)

	b := signedBundle(t, "bob", 0)
	b.SignedPreKeySignature[0] ^= 0xff

	err := svc.CacheRemoteBundle("bob", b, time.Hour)
	require.Error(t, err)
	require.Equal(t, errs.CodeInvalidBundle, errs.CodeOf(err))
}

// tokenRecorder wraps a Memory engine and records the invite token each
// fetch carries.
type tokenRecorder struct {
	*directory.Memory
	token domain.InviteToken
}

func (d *tokenRecorder) FetchBundle(
	ctx context.Context,
	user domain.UserID,
	device domain.DeviceID,
	token domain.InviteToken,
) (domain.PreKeyBundle, domain.BundleRecordRef, bool, error) {
	d.token = token
	return d.Memory.FetchBundle(ctx, user, device, token)
}

func TestFetch_ForwardsCachedInviteToken(t *testing.T) {
	ctx := context.Background()
	dir := &tokenRecorder{Memory: directory.NewMemory()}
	require.NoError(t, dir.Memory.PublishBundle(ctx, "bob", domain.PrimaryDeviceID, signedBundle(t, "bob", 0), time.Now().Add(time.Hour)))

	svc := newService(t, dir)
	require.NoError(t, svc.CacheInviteToken("bob", "invite-123"))

	_, err := svc.Fetch(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, domain.InviteToken("invite-123"), dir.token)
}

// markFailDirectory serves bundles but refuses the consumed flag.
type markFailDirectory struct {
	*directory.Memory
}

func (d *markFailDirectory) MarkOneTimePreKeyConsumed(context.Context, domain.BundleRecordRef) error {
	return errors.New("flag unavailable")
}

func TestFetch_MarkConsumedFailureIsTolerated(t *testing.T) {
	ctx := context.Background()
	dir := &markFailDirectory{Memory: directory.NewMemory()}
	require.NoError(t, dir.Memory.PublishBundle(ctx, "bob", domain.PrimaryDeviceID, signedBundle(t, "bob", 9), time.Now().Add(time.Hour)))

	got, err := newService(t, dir).Fetch(ctx, "bob")
	require.NoError(t, err)
	require.True(t, got.HasOneTimePreKey())
}

// downDirectory fails every call at the transport level.
type downDirectory struct{}

func (downDirectory) PublishBundle(context.Context, domain.UserID, domain.DeviceID, domain.PreKeyBundle, time.Time) error {
	return errs.DirectoryUnavailable("publish", errors.New("dial refused"))
}
func (downDirectory) ConsumePreviousActive(context.Context, domain.UserID, domain.DeviceID) error {
	return errs.DirectoryUnavailable("consume", errors.New("dial refused"))
}
func (downDirectory) FetchBundle(context.Context, domain.UserID, domain.DeviceID, domain.InviteToken) (domain.PreKeyBundle, domain.BundleRecordRef, bool, error) {
	return domain.PreKeyBundle{}, "", false, errs.DirectoryUnavailable("fetch", errors.New("dial refused"))
}
func (downDirectory) MarkOneTimePreKeyConsumed(context.Context, domain.BundleRecordRef) error {
	return errs.DirectoryUnavailable("mark", errors.New("dial refused"))
}

func TestFetch_TransportFailurePropagates(t *testing.T) {
	svc := newService(t, downDirectory{})

	_, err := svc.Fetch(context.Background(), "bob")
	require.Error(t, err)
	require.Equal(t, errs.CodeDirectoryUnavailable, errs.CodeOf(err))
}

func TestFetch_CacheWinsOverDirectory(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, downDirectory{})

	want := signedBundle(t, "bob", 0)
	require.NoError(t, svc.CacheRemoteBundle("bob", want, time.Hour))

	got, err := svc.Fetch(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, want.SignedPreKeyID, got.SignedPreKeyID)
}

func TestInjectBundle_BypassesCacheAndDirectory(t *testing.T) {
	svc := newService(t, downDirectory{})

	want := signedBundle(t, "bob", 0)
	svc.InjectBundle("bob", want)

	got, err := svc.Fetch(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, want.SignedPreKeyID, got.SignedPreKeyID)
}
