// Package native is the boundary to the platform crypto library.
//
// Two concerns live here. Boundary is the key-generation surface: it
// produces identity keys, registration ids and signed/kyber/one-time
// prekey records whose private halves are returned only as opaque
// serialized blobs. Library is the in-process implementation, built on
// X25519, Ed25519 and Kyber768.
//
// The second concern is the dispatch bridge. During decryption of an
// inbound handshake the crypto library must read private records from
// managed storage, but the host runtime cannot hand it a raw function
// pointer. The bridge therefore keeps a table of handlers exported by
// name, lets the library resolve one through RegisterDispatchByName
// (the analogue of a dynamic symbol lookup), and exposes a single
// stable trampoline via DispatchFunc. The dispatch path is synchronous
// and hot: handlers read only the pre-warmed KeyCache, never disk.
package native
