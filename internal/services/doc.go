// Package services defines the failure taxonomy shared by the external tool
// clients and the pipeline orchestrator.
//
// Every error a stage raises is tagged with one of the exported sentinel
// markers via Wrap, so the orchestrator can map it to a user-facing message
// with errors.Is instead of string matching. Kinds that carry data (duration
// and size policy violations) are typed errors that still match their
// sentinel.
package services
