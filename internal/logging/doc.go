// Package logging configures structured JSON logging for txtsearch.
//
// Logs go to a size-rotated file under ~/.txtsearch/logs/ and optionally
// to stderr. All packages log through log/slog; this package only wires
// the default handler.
package logging
