// Package store provides a SQLite-backed ledger of join runs.
//
// Each run records its inputs, timing, outcome and row counts in the runs
// table, and every emitted output line in the run_rows table, in output order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Rows are written inside one transaction per run and committed by
// Run.Finish. Run IDs are UUIDv7 so they sort by start time.
package store
