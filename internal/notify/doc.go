// Package notify shows execution outcomes to the operator, either as desktop
// notifications through notify-send or dunstify, or as lines on a terminal.
package notify
