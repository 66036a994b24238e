// Package commands implements the keyward CLI: identity creation,
// prekey generation and publication, bundle fetching and caching, and
// the rotation loop.
package commands
