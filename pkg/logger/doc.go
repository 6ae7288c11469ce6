// Package logger builds the structured slog logger used by the worker.
// Production environments log JSON, everything else logs text.
package logger
