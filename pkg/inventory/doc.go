/*
Package inventory implements the read-modify-write protocol over the ingredient and
cookware ledgers.

Every operation loads the whole ledger, computes the new document and saves it back
while holding the lock for that resource class, so concurrent tasks touching the same
ledger are serialized. Tasks touching different ledgers run in parallel.

# Operations

  - Acquire: all-or-nothing check-then-decrement. Insufficient stock is reported as false, not as an error.
  - Release: returns previously acquired quantities.
  - Shop: tops up missing or deficient ingredients.
  - Wash: cleans one unit of each required cookware item.
*/
package inventory
