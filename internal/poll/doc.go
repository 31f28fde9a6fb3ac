// Package poll waits for a page condition instead of sleeping for a fixed
// time. Each wait is bounded and a timeout names the condition that never
// became true.
package poll
