/*
Package easybake bakes cakes with a task graph.

Each run checks the pantry (ingredients) and the cabinets (cookware), then branches into one
of four task sets: bake the cake, replenish everything, shop for ingredients and put the
cookware back, or wash the dishes and put the ingredients back. Ledgers persist between runs,
so repeated runs consume stock until the kitchen has to replenish.

# Architecture

  - pkg/domain: ledgers, recipe, oven and events. No I/O.
  - pkg/ports: the LedgerStore and DistributedLocker interfaces.
  - pkg/adapters: memory, file (pantry.json / cabinets.json), redis and sqlite stores, plus the HTTP API.
  - pkg/inventory: acquire, release, shop and wash under a per-ledger lock.
  - pkg/kitchen: preheat, mix, bake and cool over a run-scoped oven.
  - pkg/dag, pkg/dsl, pkg/runner: the graph model, its builder and the in-process executor.
  - pkg/bakery: the easybake graph itself.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/easybake"
		"github.com/aretw0/easybake/pkg/adapters/file"
	)

	func main() {
		k, err := easybake.New(easybake.WithStore(file.New(".easybake")))
		if err != nil {
			log.Fatal(err)
		}

		report, err := k.Bake(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("decision: %s", report.Decision)
	}
*/
package easybake
