// Package prekey generates signed, kyber and one-time prekey material
// through the native boundary, persists the private records, and
// assembles the public bundle for publication.
package prekey
