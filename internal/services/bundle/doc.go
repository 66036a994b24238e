// Package bundle resolves peers' public prekey bundles: an injected
// test bundle first, then the TTL-bounded offline cache, then an
// eligibility-gated directory fetch. It also ingests bundles delivered
// out-of-band for offline session bootstrap.
package bundle
