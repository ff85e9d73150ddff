// Package addcommand implements the flow that opens the entry view and
// persists the title and command the operator submits.
package addcommand
