/*
Package ports defines the driven ports (interfaces) for the easybake workflow.

These interfaces decouple the inventory logic from external implementations, allowing
the workflow to run against various storage backends and lock providers.

# Key Interfaces

  - LedgerStore: Loads and saves whole inventory ledgers, keyed by resource class.
  - DistributedLocker: Provides distributed locking so that only one process mutates a ledger at a time.
*/
package ports
