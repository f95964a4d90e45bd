// Package audit records robot operations as compressed JSON lines.
//
// Writer rotates to a new file every UTC hour and compresses with zstd.
// Each call to Write produces one line; the service layer writes one
// service.AuditEntry per mutating operation (place, command, sequence, run,
// reset, run_scenario). The log is write-only from the server's point of
// view and is never replayed into a robot. ReadFile and DecodeFile exist for
// offline tooling such as cmd/analyze.
//
// Nop satisfies the same interface and is used when no audit directory is
// configured.
package audit
