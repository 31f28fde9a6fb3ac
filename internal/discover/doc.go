// Package discover finds the subtitle files a run should translate. It walks
// a directory tree depth-first and yields matching paths one at a time, so
// the caller can start on the first file before the rest of the tree has
// been read.
package discover
