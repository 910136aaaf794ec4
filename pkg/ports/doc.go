/*
Package ports defines the driven ports (interfaces) for the Abacus engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various storage backends and transports.

# Key Interfaces

  - StatelessEngine: What transports need from the engine facade.
  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
