// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate shell execution events into concise messages so that
// launcher feedback stays readable on a terminal while detailed telemetry
// continues to flow through structured loggers.
package ui
