// Package launcher wires the command store, shell executor, notifier and
// confirmation coordinator behind the events exchanged with the display layer.
package launcher
