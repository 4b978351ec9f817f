/*
store.go - Persistence interface for alarm records

PURPOSE:
  Defines the interface between the engine and durable storage. The Store
  handles persistence while the cache (cache.go) owns the in-memory view.
  Different implementations can use SQLite or in-memory storage.

APPEND-ONLY CONTRACT:
  - Append(): Single record write
  - AllValues(): Every record, in insertion order
  - NO Update() or Delete() methods exist

  A changed alarm is saved as a replacement record; the external scheduler
  registrations for the old record are cancelled by re-encoding from it, so
  nothing in this engine ever needs to rewrite a stored row.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - alarm/store:  In-memory store for testing/dev

SEE ALSO:
  - cache.go: Read-through cache over this interface
*/
package alarm

import "context"

// Store handles durable persistence of alarm records.
// IMPORTANT: Store is APPEND-ONLY. No Update, No Delete.
type Store interface {
	// Append persists one record. This is the ONLY write operation.
	Append(ctx context.Context, rec Record) error

	// AllValues returns every stored record in insertion order.
	AllValues(ctx context.Context) ([]Record, error)
}
