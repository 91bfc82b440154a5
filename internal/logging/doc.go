// Package logging wraps log/slog with per-module levels and three sinks.
//
// A record passes through one fanout: stdout (text or JSON) when attached
// to a terminal or pipe, journald when the socket exists, and a RingBuffer
// read by the /api/logs endpoints. Loggers handed out by GetLogger survive
// Initialize; it replaces the chain underneath them.
//
//	logging.Initialize(logging.Config{Level: "info", Modules: map[string]string{"ucm": "debug"}})
//	log := logging.GetLogger("hal")
//	log.Warn("UCM set failed", "verb", verb, "error", err)
//
// Errors carrying a halerr code gain a sibling attribute with the code, so
// the journal can be filtered on it:
//
//	journalctl -t audiohal MODULE=hal ERROR_CODE=RESOURCE
//
// The TOML form is a [logging] table with level, format and a [logging.modules]
// table; SetModuleLevel changes a module at runtime.
package logging
