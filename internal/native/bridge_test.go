package native_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"keyward/internal/domain"
	"keyward/internal/native"
)

func TestBridge_NoHandlerRegistered(t *testing.T) {
	b := native.NewBridge()
	dispatch := b.DispatchFunc()

	_, status := dispatch(native.RecordRequest{Kind: domain.RecordSigned, ID: 1})
	require.Equal(t, native.DispatchNoHandler, status)
}

func TestBridge_RegisterByName(t *testing.T) {
	b := native.NewBridge()
	require.Error(t, b.RegisterDispatchByName("bridge-test-missing"))

	native.ExportHandler("bridge-test-echo", func(req native.RecordRequest) (native.RecordResponse, int32) {
		return native.RecordResponse{Serialized: []byte("ok")}, native.DispatchOK
	})
	require.NoError(t, b.RegisterDispatchByName("bridge-test-echo"))

	resp, status := b.DispatchFunc()(native.RecordRequest{Kind: domain.RecordSigned, ID: 1})
	require.Equal(t, native.DispatchOK, status)
	require.Equal(t, []byte("ok"), resp.Serialized)
}

func TestBridge_TrampolineSeesLaterRegistration(t *testing.T) {
	b := native.NewBridge()

	// The library holds the trampoline before any handler exists.
	dispatch := b.DispatchFunc()
	_, status := dispatch(native.RecordRequest{Kind: domain.RecordOneTime, ID: 2})
	require.Equal(t, native.DispatchNoHandler, status)

	b.RegisterDispatch(func(req native.RecordRequest) (native.RecordResponse, int32) {
		return native.RecordResponse{}, native.DispatchNotFound
	})
	_, status = dispatch(native.RecordRequest{Kind: domain.RecordOneTime, ID: 2})
	require.Equal(t, native.DispatchNotFound, status)
}

func TestKeyCache_DispatchHandler(t *testing.T) {
	cache := native.NewKeyCache()
	handler := cache.DispatchHandler()

	// Cold cache misses cleanly.
	_, status := handler(native.RecordRequest{Kind: domain.RecordSigned, ID: 1})
	require.Equal(t, native.DispatchNotFound, status)
	_, status = handler(native.RecordRequest{Kind: domain.RecordIdentity})
	require.Equal(t, native.DispatchNotFound, status)

	// Warmed entries are served from memory.
	cache.PutRecord(domain.RecordSigned, 1, []byte("spk"))
	cache.SetIdentity(domain.IdentityKeyPair{Public: []byte{1}, Private: []byte{2}})
	cache.SetRegistrationID(77)

	resp, status := handler(native.RecordRequest{Kind: domain.RecordSigned, ID: 1})
	require.Equal(t, native.DispatchOK, status)
	require.Equal(t, []byte("spk"), resp.Serialized)

	resp, status = handler(native.RecordRequest{Kind: domain.RecordRegistration})
	require.Equal(t, native.DispatchOK, status)
	require.Equal(t, domain.RegistrationID(77), resp.RegistrationID)

	// Consumed one-time records stop resolving.
	cache.PutRecord(domain.RecordOneTime, 9, []byte("opk"))
	cache.DropRecord(domain.RecordOneTime, 9)
	_, status = handler(native.RecordRequest{Kind: domain.RecordOneTime, ID: 9})
	require.Equal(t, native.DispatchNotFound, status)

	// Unknown categories are rejected, not treated as misses.
	_, status = handler(native.RecordRequest{Kind: domain.RecordKind("bogus")})
	require.Equal(t, native.DispatchBadRequest, status)
}
