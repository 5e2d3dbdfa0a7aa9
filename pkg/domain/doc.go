/*
Package domain contains the core domain models for the stock check-in workflow.

It defines the fundamental entities of the collection state machine and the report,
and is kept free of I/O and persistence concerns so adapters can depend on it
without cycles.

# Key Entities

  - Entry: A catalog item (name, kind and, for Quantity items, the minimum threshold).
  - State: The per-conversation cursor over the catalog's traversal order.
  - Prompt: What the operator is asked at a given cursor position.
  - Report: Itemized values plus the ordered list of deficient items.
*/
package domain
