package directory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"keyward/internal/domain"
)

// Memory is an in-process directory engine.
type Memory struct {
	mu   sync.Mutex
	rows []*domain.RemoteBundleRecord
	now  func() time.Time
}

// NewMemory returns an empty engine.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// PublishBundle inserts a new unconsumed row for (user, device).
// Callers wanting the single-active invariant run ConsumePreviousActive
// first; the engine itself accepts duplicate active rows, which only
// cause a stale read, resolved by fetch-retry.
func (m *Memory) PublishBundle(
	_ context.Context,
	user domain.UserID,
	device domain.DeviceID,
	bundle domain.PreKeyBundle,
	expiresAt time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, &domain.RemoteBundleRecord{
		Ref:       domain.BundleRecordRef(uuid.NewString()),
		UserID:    user,
		DeviceID:  device,
		Bundle:    bundle,
		CreatedAt: m.now(),
		ExpiresAt: expiresAt,
	})
	return nil
}

// ConsumePreviousActive marks every unconsumed row for (user, device)
// as consumed.
func (m *Memory) ConsumePreviousActive(_ context.Context, user domain.UserID, device domain.DeviceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.UserID == user && r.DeviceID == device && !r.Consumed {
			r.Consumed = true
		}
	}
	return nil
}

// FetchBundle returns the newest active row for (user, device). If the
// stored bundle still carries a one-time prekey it is popped from the
// row before returning, so a later fetch sees a bundle without it.
//
// The token argument is accepted for contract parity; eligibility
// enforcement belongs to a production directory.
func (m *Memory) FetchBundle(
	_ context.Context,
	user domain.UserID,
	device domain.DeviceID,
	_ domain.InviteToken,
) (domain.PreKeyBundle, domain.BundleRecordRef, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var newest *domain.RemoteBundleRecord
	for _, r := range m.rows {
		if r.UserID != user || r.DeviceID != device || !r.Active(m.now()) {
			continue
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	if newest == nil {
		return domain.PreKeyBundle{}, "", false, nil
	}

	served := newest.Bundle
	if newest.Bundle.HasOneTimePreKey() {
		newest.Bundle = newest.Bundle.WithoutOneTimePreKey()
	}
	return served, newest.Ref, true, nil
}

// MarkOneTimePreKeyConsumed flags the referenced row as consumed.
func (m *Memory) MarkOneTimePreKeyConsumed(_ context.Context, ref domain.BundleRecordRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.Ref == ref {
			r.Consumed = true
			return nil
		}
	}
	return nil
}

// ActiveCount reports how many unconsumed, unexpired rows exist for
// (user, device).
func (m *Memory) ActiveCount(user domain.UserID, device domain.DeviceID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.rows {
		if r.UserID == user && r.DeviceID == device && r.Active(m.now()) {
			n++
		}
	}
	return n
}

// Compile-time assertion that Memory implements domain.Directory.
var _ domain.Directory = (*Memory)(nil)
