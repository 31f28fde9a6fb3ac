// Package browser is the boundary between subtrans and the browser engine.
// It defines the small driver surface the translation workflow needs
// (element targets, clicks, form fills, file chooser, download and popup
// capture, storage state) and a playwright-go implementation of it.
package browser
