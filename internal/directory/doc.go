// Package directory implements the remote bundle directory contract.
//
// Memory is the row engine with the single-active-bundle semantics:
// publishing marks the previous active row consumed before inserting
// the new one, fetch serves only unconsumed, unexpired rows, and a
// served one-time prekey is popped so it is never handed out twice.
// HTTPClient speaks the same contract over JSON to a remote directory;
// Handler exposes a Memory engine through those routes for development
// and tests.
package directory
