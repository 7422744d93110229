// Command tunegrab runs the YouTube-to-MP3 Telegram bot and provides local
// utilities: one-shot conversion, conversion history, configuration
// management, and dependency preflight checks.
package main
