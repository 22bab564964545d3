// Package github fetches repository search results and workflow runs from
// the GitHub REST API.
//
// Calls are throttled proactively by a token bucket and reactively from the
// X-RateLimit headers. Throttled responses are classified into a cooldown so
// the collection loop can retry the same page.
package github
