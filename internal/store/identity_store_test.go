package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"keyward/internal/domain"
	"keyward/internal/store"
)

func testIdentity() domain.IdentityKeyPair {
	return domain.IdentityKeyPair{
		Public:         []byte{1, 2, 3},
		Private:        []byte{4, 5, 6},
		SigningPublic:  []byte{7, 8, 9},
		SigningPrivate: []byte{10, 11, 12},
	}
}

func TestIdentityStore_SaveLoad(t *testing.T) {
	s := store.NewIdentityFileStore(t.TempDir(), "pass")

	_, ok, err := s.LoadIdentity()
	require.NoError(t, err)
	require.False(t, ok)

	id := testIdentity()
	require.NoError(t, s.SaveIdentity(id))

	got, ok, err := s.LoadIdentity()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, got)
}

func TestIdentityStore_WrongPassphrase(t *testing.T) {
	home := t.TempDir()

	s := store.NewIdentityFileStore(home, "correct")
	require.NoError(t, s.SaveIdentity(testIdentity()))

	wrong := store.NewIdentityFileStore(home, "wrong")
	_, _, err := wrong.LoadIdentity()
	require.Error(t, err)
}

func TestIdentityStore_RegistrationID_SurvivesIdentitySave(t *testing.T) {
	s := store.NewIdentityFileStore(t.TempDir(), "pass")

	_, ok, err := s.LoadRegistrationID()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SaveRegistrationID(1234))
	require.NoError(t, s.SaveIdentity(testIdentity()))

	id, ok, err := s.LoadRegistrationID()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.RegistrationID(1234), id)
}
