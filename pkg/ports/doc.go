/*
Package ports defines the driven ports (interfaces) of arbor.

These interfaces decouple applications from external implementations, so the
same module tree can persist its captured inputs in memory, in Redis or in any
other backend.

# Key Interfaces

  - InputStore: persists and restores the inputs captured by a run.
  - RunLocker: serializes runs that share a run ID across processes.

RunInputStoreContract is a reusable test suite for InputStore implementations.
*/
package ports
