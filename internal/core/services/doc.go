// Package services holds the pipeline logic: paging through the remote API,
// packing snapshots into archives and reconciling them with a document store.
//
// Services only talk to driven ports. Sleeping between throttled calls goes
// through an injectable Sleeper so tests run without waiting.
package services
