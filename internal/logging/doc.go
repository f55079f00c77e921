// Package logging provides slog-based logging for the overture CLI.
//
// The default handler produces colorized, human-readable output on TTYs
// and plain text otherwise. A JSON handler is available via --log-format,
// and MultiHandler fans records out to a log file sink in addition to the
// terminal.
//
// Attribute values whose keys look like credentials (TOKEN, SECRET, KEY,
// PASSWORD, ...) are masked before printing. MCP server definitions carry
// API credentials in their env blocks, so redaction is on by default and
// cannot be disabled.
package logging
