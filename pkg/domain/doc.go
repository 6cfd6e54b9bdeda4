/*
Package domain contains the core domain models for the easybake workflow.

It defines the entities shared by every other package: the Recipe being baked,
the inventory Ledgers, the run-scoped Oven and the identifiers of the tasks in the
bake graph. This package is kept pure and free of I/O and persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Recipe: immutable requirements (ingredients, cookware, oven temperature).
  - Ledger: on-hand quantities of one ResourceClass.
  - Oven: temperature state machine (COLD -> PREHEATING -> HOT) scoped to one run.
  - TaskID: the name of a node in the bake graph.
*/
package domain
