// Package eventbus is the process-wide listener table connecting the launcher
// core with its display layer.
//
// Events carry a key such as "commands" or "confirmation-window-loaded" and a
// JSON payload. Each subscribed handler runs on its own goroutine.
package eventbus
