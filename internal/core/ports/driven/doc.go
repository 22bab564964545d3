// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Fetcher: One remote call per page or parent (GitHub)
//   - TokenProvider: Bearer token for the remote API
//   - SnapshotStore: Page-sized JSON files on disk
//   - Archiver: tar.gz packing and unpacking
//   - Cipher: Symmetric passphrase encryption
//   - DocumentStore: Collections reconciled by natural key (MongoDB, SQLite)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
