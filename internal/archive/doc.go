// Package archive backs up original subtitle files before subtrans
// replaces them with their translations.
package archive
