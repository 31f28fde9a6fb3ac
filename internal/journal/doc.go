// Package journal remembers which translations have already been written.
// Entries are keyed by the file the translation was saved to and hold its
// checksum, so a second run over the same folder skips files that still
// carry their translation and redoes everything else.
package journal
