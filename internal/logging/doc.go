// Package logging builds the application's slog loggers: a pretty console
// handler for interactive use and a JSON handler for machine consumption.
package logging
