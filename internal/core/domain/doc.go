// Package domain defines the core entities of the ghpipe data pipeline.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - Category: the data set being processed (repositories or workflow runs)
//   - Mode: what the operator asked the pipeline to do
//   - Document: an opaque JSON record keyed by its url
//   - FetchResult: the outcome of one remote call
//   - Layout: where snapshots and archives live on disk
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
