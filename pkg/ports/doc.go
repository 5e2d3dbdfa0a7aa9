/*
Package ports defines the driven ports (interfaces) of the stock check-in core.

These interfaces decouple the collection state machine and the report from
concrete storage engines, so the same core runs against memory, SQL, Redis or
file-backed adapters.

# Key Interfaces

  - ValueStore: Last-known value per catalog item (get/set, insert-if-absent seeding).
  - SessionStore: Ephemeral per-conversation collection state.
  - DistributedLocker: Optional cross-replica locking of a conversation.
*/
package ports
