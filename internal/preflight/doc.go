// Package preflight runs startup checks before the bot begins polling:
// external binaries present and runnable, staging directory writable, and
// enough free disk to land a download.
package preflight
