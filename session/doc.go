// Package session implements the process-wide session lock and idle
// auto-lock.
//
// State lives outside the process so that a lock survives restarts:
//   - a lock marker whose presence means the session is locked
//   - an activity marker whose modification time is the last activity
//   - a JSON config record {"timeout_minutes": N} (null disables auto-lock)
//
// Every query re-reads the backing store. When a marker cannot be read the
// session is treated as locked.
package session
