// Package tui renders the command list in the terminal with bubbletea and
// acts as the display layer: it receives pushed events through Bridge, serves
// as the confirmation and entry views, and forwards operator input back to
// the launcher.
package tui
