// Package driving defines the interface the CLI uses to run the pipeline.
//
// Pipeline takes a resolved RunRequest (mode, category, search term) and
// returns a RunReport holding one report per step that ran. The
// implementation lives in internal/core/services.
package driving
