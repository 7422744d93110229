// Package staging owns the per-request workspace lifecycle: an isolated
// directory acquired at the start of a request and removed exactly once when
// the request ends, whatever the outcome. A startup sweeper reclaims
// workspaces left behind by crashed processes.
package staging
