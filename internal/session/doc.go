// Package session gets subtrans a logged-in browser tab. It reuses the
// cookies saved by the previous run when they load, falls back to an
// interactive login otherwise, and saves the session again at shutdown.
package session
