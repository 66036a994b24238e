package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"keyward/internal/domain"
)

const (
	recordMetaFile = "record_meta.json"

	// DefaultMaxOneTimePool bounds the number of retained one-time
	// prekey records.
	DefaultMaxOneTimePool = 100
)

// recordMeta tracks the id allocator and the per-category current pointers.
type recordMeta struct {
	NextID  domain.RecordID                       `json:"next_id"`
	Current map[domain.RecordKind]domain.RecordID `json:"current"`
}

// RecordFileStore persists private prekey records, encrypted at rest.
// Records are an arena keyed by id: superseded signed and kyber records
// stay resolvable so delayed handshakes that reference an older id can
// still be decrypted.
type RecordFileStore struct {
	dir        string
	passphrase string
	maxOneTime int
	mu         sync.Mutex
}

// NewRecordFileStore returns a RecordFileStore rooted at dir. A
// maxOneTime of zero applies DefaultMaxOneTimePool.
func NewRecordFileStore(dir, passphrase string, maxOneTime int) *RecordFileStore {
	if maxOneTime <= 0 {
		maxOneTime = DefaultMaxOneTimePool
	}
	return &RecordFileStore{dir: dir, passphrase: passphrase, maxOneTime: maxOneTime}
}

func recordFile(kind domain.RecordKind) string {
	return fmt.Sprintf("records_%s.enc", kind)
}

// SaveRecord merges rec into the arena for kind. For one-time records
// the pool is bounded: the oldest ids beyond the bound are evicted.
func (s *RecordFileStore) SaveRecord(kind domain.RecordKind, rec domain.PreKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadKind(kind)
	if err != nil {
		return err
	}
	m[rec.ID] = rec

	if kind == domain.RecordOneTime && len(m) > s.maxOneTime {
		ids := sortedIDs(m)
		for _, id := range ids[:len(m)-s.maxOneTime] {
			delete(m, id)
		}
	}
	return s.saveKind(kind, m)
}

// LoadRecord retrieves a record by category and id.
func (s *RecordFileStore) LoadRecord(kind domain.RecordKind, id domain.RecordID) (domain.PreKeyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadKind(kind)
	if err != nil {
		return domain.PreKeyRecord{}, false, err
	}
	rec, ok := m[id]
	return rec, ok, nil
}

// DeleteRecord removes a record; used when a one-time prekey is consumed.
func (s *RecordFileStore) DeleteRecord(kind domain.RecordKind, id domain.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadKind(kind)
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return nil
	}
	delete(m, id)
	return s.saveKind(kind, m)
}

// ListRecordIDs returns the retained ids for kind in ascending order.
func (s *RecordFileStore) ListRecordIDs(kind domain.RecordKind) ([]domain.RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadKind(kind)
	if err != nil {
		return nil, err
	}
	return sortedIDs(m), nil
}

// SetCurrentRecordID records which id is current for kind.
func (s *RecordFileStore) SetCurrentRecordID(kind domain.RecordKind, id domain.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.loadMeta()
	if err != nil {
		return err
	}
	meta.Current[kind] = id
	return s.saveMeta(meta)
}

// CurrentRecordID returns the current id for kind, if one is set.
func (s *RecordFileStore) CurrentRecordID(kind domain.RecordKind) (domain.RecordID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.loadMeta()
	if err != nil {
		return 0, false, err
	}
	id, ok := meta.Current[kind]
	return id, ok, nil
}

// NextRecordID allocates the next id from the shared counter.
func (s *RecordFileStore) NextRecordID() (domain.RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.loadMeta()
	if err != nil {
		return 0, err
	}
	meta.NextID++
	if err := s.saveMeta(meta); err != nil {
		return 0, err
	}
	return meta.NextID, nil
}

func (s *RecordFileStore) loadKind(kind domain.RecordKind) (map[domain.RecordID]domain.PreKeyRecord, error) {
	m := map[domain.RecordID]domain.PreKeyRecord{}
	raw, err := readSealed(filepath.Join(s.dir, recordFile(kind)), s.passphrase)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *RecordFileStore) saveKind(kind domain.RecordKind, m map[domain.RecordID]domain.PreKeyRecord) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return writeSealed(filepath.Join(s.dir, recordFile(kind)), s.passphrase, raw, 0o600)
}

func (s *RecordFileStore) loadMeta() (recordMeta, error) {
	meta := recordMeta{Current: map[domain.RecordKind]domain.RecordID{}}
	if err := readJSON(filepath.Join(s.dir, recordMetaFile), &meta); err != nil {
		return meta, err
	}
	if meta.Current == nil {
		meta.Current = map[domain.RecordKind]domain.RecordID{}
	}
	return meta, nil
}

func (s *RecordFileStore) saveMeta(meta recordMeta) error {
	return writeJSON(filepath.Join(s.dir, recordMetaFile), meta, 0o600)
}

func sortedIDs(m map[domain.RecordID]domain.PreKeyRecord) []domain.RecordID {
	ids := make([]domain.RecordID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Compile-time assertion that RecordFileStore implements domain.RecordStore.
var _ domain.RecordStore = (*RecordFileStore)(nil)
