/*
Package ports defines the driven ports (interfaces) for the USSD simulator.

These interfaces decouple the session engine from external implementations, allowing
it to work with different response catalogs, session stores and lock providers.

# Key Interfaces

  - Catalog: Produces the screens for a dial code and the selections made under it.
  - IDGenerator: Mints session identifiers for new dials.
  - SessionStore: Persists and loads session snapshots for multi-user adapters.
  - DistributedLocker: Provides cross-replica "operation in progress" guards.
*/
package ports
