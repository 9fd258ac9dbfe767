// Package backfill embeds catalog entries that lack a stored vector.
//
// Bulk imports deliberately skip synchronous embedding, and individual
// embedding jobs can fail permanently; backfill sweeps up both cases in
// batches, with progress tracking and retry logic with exponential
// backoff.
package backfill
