// Package cli constructs the cmdlauncher command-line interface, wiring the
// Cobra command hierarchy, configuration loader and structured logging to the
// launcher services. Each subcommand assembles its own runtime: the command
// store, the shell executor, the notifier, the listener table and, when a
// confirmation is requested, the confirmation coordinator.
package cli
