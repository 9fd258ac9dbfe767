// Package cache provides a generic TTL key/value cache used for
// memoizing resolution results, similarity lookups and tag frequencies.
//
// Two backends implement the Store interface: an in-process map for
// single-node deployments and a BadgerDB-backed store with native entry
// TTLs for caches shared across restarts. Caching is advisory: all
// failures are logged and degrade to cache misses.
package cache
