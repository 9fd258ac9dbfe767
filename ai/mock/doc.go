// Package mock provides deterministic test doubles for the ai interfaces.
// The mock embedder produces stable vectors from a hash of the input text,
// so tests get repeatable similarity scores without a live provider.
package mock
