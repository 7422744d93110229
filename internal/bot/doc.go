// Package bot is the Telegram transport. It long-polls for chat messages,
// runs one pipeline request per message, edits a single status message in
// place as the request advances, and uploads the finished MP3.
package bot
