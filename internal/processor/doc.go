// Package processor contains the translation workflow. For every subtitle
// file found under a folder it creates a project on the service, uploads
// the file, submits it, downloads the translation over the original (or
// into a separate output folder), and deletes the project again. Files are
// handled strictly one after another and the first failure stops the run.
package processor
