// Package logger provides a small factory around log/slog plus attribute
// helpers for the identifiers this codebase logs most often (acting user,
// channel, transaction record).
//
// All services in this module accept a *slog.Logger; this package only
// standardizes how that logger is constructed and which attribute keys
// are used, so log aggregation stays consistent across packages.
package logger
