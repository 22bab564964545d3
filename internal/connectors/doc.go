// Package connectors holds the remote sources ghpipe collects from.
// Each connector implements driven.Fetcher for one API.
package connectors
