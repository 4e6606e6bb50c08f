// Package logger builds the structured slog loggers used by every fleetman
// component.
//
// New creates a *slog.Logger from functional options: output format (JSON for
// production, text for development), minimum level, static attributes and
// context extractors. The resulting handler is wrapped by a context handler
// which pulls attributes out of the context on every record, so values set
// with WithContextAttrs (for example the id of a scheduler run) show up on
// every line logged with that context.
//
// Attribute helpers in attr.go keep key names consistent across packages:
//
//	log.WarnContext(ctx, "connection write failed",
//	    logger.AccountID(accountID),
//	    logger.ConnectionID(conn.ID),
//	    logger.Error(err),
//	)
//
// Error and Errors return an empty attribute for nil errors, so callers never
// need a nil check before logging.
package logger
