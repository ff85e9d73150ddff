// Package execshell runs launcher entries through the configured subshell.
//
// ShellExecutor starts one subshell per command line, waits for it to exit,
// decodes the selected output stream from the configured legacy encoding and
// classifies the outcome. OSCommandRunner is the default os/exec backed
// CommandRunner; observers receive lifecycle events for console rendering.
package execshell
