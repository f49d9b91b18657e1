// Package shutdown provides graceful shutdown for statebag.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Hooks run in reverse registration order so dependents stop before
// their dependencies.
package shutdown
