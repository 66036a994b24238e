package interfaces

import (
	"context"
	"time"

	domaintypes "keyward/internal/domain/types"
)

// Directory is the remote bundle directory, all calls with context.
// Eligibility enforcement lives on the directory side; this layer only
// forwards an optional invitation token.
type Directory interface {
	// PublishBundle inserts a new active row for (user, device).
	PublishBundle(
		ctx context.Context,
		user domaintypes.UserID,
		device domaintypes.DeviceID,
		bundle domaintypes.PreKeyBundle,
		expiresAt time.Time,
	) error

	// ConsumePreviousActive marks any existing non-consumed row for
	// (user, device) as consumed.
	ConsumePreviousActive(
		ctx context.Context,
		user domaintypes.UserID,
		device domaintypes.DeviceID,
	) error

	// FetchBundle resolves the current active bundle for (user, device).
	// ok is false when no active row exists.
	FetchBundle(
		ctx context.Context,
		user domaintypes.UserID,
		device domaintypes.DeviceID,
		token domaintypes.InviteToken,
	) (
		bundle domaintypes.PreKeyBundle,
		ref domaintypes.BundleRecordRef,
		ok bool,
		err error,
	)

	// MarkOneTimePreKeyConsumed flags the row whose one-time prekey was
	// just handed out, so it is not served again.
	MarkOneTimePreKeyConsumed(ctx context.Context, ref domaintypes.BundleRecordRef) error
}
