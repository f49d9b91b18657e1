// Package storage provides the persistence engines backing the session
// medium.
//
// The Engine interface abstracts an embedded KV store so deployments
// can choose durability: BadgerEngine persists sessions across process
// restarts, MemoryEngine keeps them process-local. Both are safe for
// concurrent use; a long-lived server shares one engine across every
// request-scoped registry.
package storage
