package publisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"keyward/internal/directory"
	"keyward/internal/domain"
	"keyward/internal/services/publisher"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testBundle() domain.PreKeyBundle {
	return domain.PreKeyBundle{
		UserID:         "alice",
		DeviceID:       1,
		RegistrationID: 99,
		IdentityKey:    []byte{1},
		SignedPreKeyID: 5,
		SignedPreKey:   []byte{2},
	}
}

func TestPublish_RepublishLeavesOneActiveRow(t *testing.T) {
	ctx := context.Background()
	engine := directory.NewMemory()
	svc := publisher.New(engine, quietLog(), time.Hour)

	require.NoError(t, svc.Publish(ctx, "alice", testBundle()))
	require.NoError(t, svc.Publish(ctx, "alice", testBundle()))
	require.NoError(t, svc.Publish(ctx, "alice", testBundle()))

	require.Equal(t, 1, engine.ActiveCount("alice", 1))
}

func TestPublish_NoDirectoryConfigured(t *testing.T) {
	svc := publisher.New(nil, quietLog(), 0)
	require.NoError(t, svc.Publish(context.Background(), "alice", testBundle()))
}

// faultyDirectory wraps a Memory engine and fails selected operations.
type faultyDirectory struct {
	*directory.Memory
	failConsume bool
	failPublish bool
}

func (d *faultyDirectory) ConsumePreviousActive(ctx context.Context, user domain.UserID, device domain.DeviceID) error {
	if d.failConsume {
		return errors.New("consume unavailable")
	}
	return d.Memory.ConsumePreviousActive(ctx, user, device)
}

func (d *faultyDirectory) PublishBundle(
	ctx context.Context,
	user domain.UserID,
	device domain.DeviceID,
	bundle domain.PreKeyBundle,
	expiresAt time.Time,
) error {
	if d.failPublish {
		return errors.New("upload unavailable")
	}
	return d.Memory.PublishBundle(ctx, user, device, bundle, expiresAt)
}

func TestPublish_ConsumeFailureStillInserts(t *testing.T) {
	ctx := context.Background()
	dir := &faultyDirectory{Memory: directory.NewMemory(), failConsume: true}
	svc := publisher.New(dir, quietLog(), time.Hour)

	require.NoError(t, svc.Publish(ctx, "alice", testBundle()))
	require.NoError(t, svc.Publish(ctx, "alice", testBundle()))

	// The retire step failing leaves a duplicate row; it never blocks
	// the fresh insert.
	require.Equal(t, 2, dir.Memory.ActiveCount("alice", 1))
}

func TestPublish_UploadFailureIsSwallowed(t *testing.T) {
	dir := &faultyDirectory{Memory: directory.NewMemory(), failPublish: true}
	svc := publisher.New(dir, quietLog(), time.Hour)

	require.NoError(t, svc.Publish(context.Background(), "alice", testBundle()))
	require.Equal(t, 0, dir.Memory.ActiveCount("alice", 1))
}
