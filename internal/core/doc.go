// Package core holds the workspace service behind every transport.
//
// A workspace is one uploaded spreadsheet being cleaned: its [sheet.State],
// the file it came from and the saved session it is linked to. The
// [Service] keeps workspaces in memory keyed by UUID and serialises the
// operations on each one, while different workspaces proceed in parallel.
//
// # Ingestion
//
// Files are parsed by package ingest under an [IngestLimiter] that bounds
// concurrent parsing, and under the configured upload timeout. Parsing
// happens outside the workspace lock; a failed parse never touches the
// workspace. A second upload into a workspace that is still loading one
// fails with [ErrIngestInProgress].
//
// # Sessions
//
// [Service.Save] copies a workspace's title, headers and rows to the
// session store and remembers the session id so that later saves update
// the same record. [Service.OpenSession] starts a new workspace from a
// saved session.
//
// # Eviction
//
// Idle workspaces are dropped by [Service.StartEvictionScheduler].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - SHT001-SHT002: Sheet errors (range, no document)
//   - EXP001-EXP002: Export errors
//   - FILE001-FILE004: File errors (size, type, parse, missing)
//   - ING001-ING004: Ingest errors (busy, cancelled, timeout)
//   - WS001-WS002, SES001-SES002: Workspace and session lookups
//   - REQ001, DB001-DB003, RATE001, ERR000
//
// AUTH001-AUTH002 are written by the web API key middleware.
package core
