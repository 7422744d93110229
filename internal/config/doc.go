// Package config loads, normalizes, and validates tunegrab configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TUNEGRAB_BOT_TOKEN. The Config type centralizes every knob the daemon and
// CLI need: staging and journal locations, duration and upload policies,
// timeouts, and external tool overrides.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
