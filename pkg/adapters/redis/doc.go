// Package redis keeps session snapshots in a shared Redis so that several simulator
// replicas can serve the same sessions. Snapshots are JSON with a TTL; nothing is meant
// to outlive an idle timeout.
package redis
