/*
Package ports defines the driven ports (interfaces) of the sales flow.

These interfaces decouple the engine and dispatcher from concrete storage and
registry backends, so the same flow runs against an in-memory table in tests
and a distributed cache or database in production.

# Key Interfaces

  - SessionStore: persists in-progress Sessions keyed by identity.
  - DistributedLocker: serializes access to one identity across replicas.
  - Ledger: durably records confirmed drafts (the commit collaborator).
  - AccountRegistry: the authorization gate and the registration sink.
*/
package ports
