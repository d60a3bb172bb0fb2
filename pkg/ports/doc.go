/*
Package ports defines the driven ports of flowboard.

The editing core never persists anything itself; these interfaces let the session
manager plug in snapshot storage and cross-replica locking.

# Key Interfaces

  - GraphStore: persists graph snapshots keyed by session id (memory, file, redis).
  - DistributedLocker: serializes access to a session across replicas.
*/
package ports
