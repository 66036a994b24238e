package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"keyward/internal/directory"
	"keyward/internal/domain"
)

func publishedBundle(opkID domain.RecordID) domain.PreKeyBundle {
	b := domain.PreKeyBundle{
		UserID:         "u1",
		DeviceID:       1,
		RegistrationID: 42,
		IdentityKey:    []byte{1},
		SignedPreKeyID: 10,
		SignedPreKey:   []byte{2},
	}
	if opkID != 0 {
		b.OneTimePreKeyID = opkID
		b.OneTimePreKey = []byte{3}
	}
	return b
}

func TestMemory_SingleActiveRowAfterRepublish(t *testing.T) {
	ctx := context.Background()
	m := directory.NewMemory()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, m.PublishBundle(ctx, "u1", 1, publishedBundle(0), exp))

	// The publisher protocol: consume previous, then insert.
	require.NoError(t, m.ConsumePreviousActive(ctx, "u1", 1))
	require.NoError(t, m.PublishBundle(ctx, "u1", 1, publishedBundle(0), exp))

	require.Equal(t, 1, m.ActiveCount("u1", 1))
}

func TestMemory_DevicesDoNotContend(t *testing.T) {
	ctx := context.Background()
	m := directory.NewMemory()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, m.PublishBundle(ctx, "u1", 1, publishedBundle(0), exp))
	require.NoError(t, m.PublishBundle(ctx, "u1", 2, publishedBundle(0), exp))
	require.NoError(t, m.ConsumePreviousActive(ctx, "u1", 1))

	require.Equal(t, 0, m.ActiveCount("u1", 1))
	require.Equal(t, 1, m.ActiveCount("u1", 2))
}

func TestMemory_FetchPopsOneTimePreKey(t *testing.T) {
	ctx := context.Background()
	m := directory.NewMemory()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, m.PublishBundle(ctx, "u1", 1, publishedBundle(33), exp))

	first, _, ok, err := m.FetchBundle(ctx, "u1", 1, "")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.RecordID(33), first.OneTimePreKeyID)

	second, _, ok, err := m.FetchBundle(ctx, "u1", 1, "")
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, second.HasOneTimePreKey())
}

func TestMemory_MarkOneTimePreKeyConsumedRetiresRow(t *testing.T) {
	ctx := context.Background()
	m := directory.NewMemory()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, m.PublishBundle(ctx, "u1", 1, publishedBundle(33), exp))

	_, ref, ok, err := m.FetchBundle(ctx, "u1", 1, "")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.MarkOneTimePreKeyConsumed(ctx, ref))
	require.Equal(t, 0, m.ActiveCount("u1", 1))
}

func TestMemory_ExpiredRowsAreNotServed(t *testing.T) {
	ctx := context.Background()
	m := directory.NewMemory()

	require.NoError(t, m.PublishBundle(ctx, "u1", 1, publishedBundle(0), time.Now().Add(-time.Second)))

	_, _, ok, err := m.FetchBundle(ctx, "u1", 1, "")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, m.ActiveCount("u1", 1))
}
