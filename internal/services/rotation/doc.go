// Package rotation periodically regenerates and republishes prekey
// material, on a fixed interval and whenever the one-time prekey pool
// drops below its low-water mark. Rotation never deletes superseded
// records; pruning is a separate, longer-horizon policy.
package rotation
