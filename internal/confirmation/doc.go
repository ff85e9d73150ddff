// Package confirmation coordinates the confirm-before-run handshake between the
// launcher and a confirmation view.
//
// Coordinator.Open creates a view and listens for its readiness signal. The
// pending command is pushed to that view exactly once, and only after the
// same view instance reported that it finished loading. TerminalView is a
// console implementation of the view.
package confirmation
