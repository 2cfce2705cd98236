// Package logging builds the broker's slog logger.
//
// The logger writes JSON or text, adds request_id and trace_id from the
// context of each record, and (unless disabled) passes every attribute
// through a Redactor so provider keys, bearer tokens and minted credentials
// never reach the log output:
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
//	logger.InfoContext(ctx, "credential issued", "provider", "livekit")
package logging
