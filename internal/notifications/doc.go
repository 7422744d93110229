// Package notifications sends optional operator alerts over ntfy: bot
// lifecycle, successful conversions, and failures worth waking someone up
// for. With no topic configured every call is a no-op.
package notifications
