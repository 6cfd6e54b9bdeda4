// Package bakery wires the cake-baking tasks into a task graph.
//
// Two acquisition tasks check the pantry and the cabinets concurrently. A branch then picks
// one of four task sets: bake the cake, replenish everything, shop and put the cookware
// back, or wash the dishes and put the ingredients back.
package bakery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/easybake/internal/logging"
	"github.com/aretw0/easybake/pkg/branch"
	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/dsl"
	"github.com/aretw0/easybake/pkg/inventory"
	"github.com/aretw0/easybake/pkg/kitchen"
)

// Bakery binds a recipe to an inventory and a kitchen.
type Bakery struct {
	recipe    domain.Recipe
	inventory *inventory.Manager
	kitchen   *kitchen.Kitchen
	logger    *slog.Logger
}

// Option configures a Bakery.
type Option func(*Bakery)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bakery) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New validates the recipe and returns a Bakery.
func New(recipe domain.Recipe, inv *inventory.Manager, k *kitchen.Kitchen, opts ...Option) (*Bakery, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	b := &Bakery{
		recipe:    recipe,
		inventory: inv,
		kitchen:   k,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Recipe returns the recipe the bakery follows.
func (b *Bakery) Recipe() domain.Recipe {
	return b.recipe
}

// Graph builds the easybake task graph.
func (b *Bakery) Graph() (*dag.Graph, error) {
	ingredients := b.recipe.Ingredients.Clone()
	cookware := b.recipe.Cookware.Clone()
	temp := b.recipe.Temperature

	d := dsl.New()

	d.Add(domain.TaskGetIngredients).
		Describe("Take the recipe's ingredients from the pantry").
		Do(b.acquire(domain.Ingredients, ingredients))
	d.Add(domain.TaskGetCookware).
		Describe("Take the recipe's cookware from the cabinets").
		Do(b.acquire(domain.Cookware, cookware))

	d.Add(domain.TaskBranch).
		Describe("Pick the next task set from the acquisition results").
		After(domain.TaskGetIngredients, domain.TaskGetCookware).
		Branch(b.decide)

	d.Add(domain.TaskPreheatOven).
		Describe("Preheat the oven to the recipe temperature").
		After(domain.TaskBranch).
		Do(func(ctx context.Context, rc *dag.RunContext) (any, error) {
			b.kitchen.Preheat(ctx, rc.Oven, temp)
			return nil, nil
		})
	d.Add(domain.TaskMixIngredients).
		Describe("Mix the batter").
		After(domain.TaskBranch).
		Do(func(ctx context.Context, rc *dag.RunContext) (any, error) {
			b.kitchen.Mix(ctx)
			return nil, nil
		})
	d.Add(domain.TaskBakeCake).
		Describe("Bake if the oven is at the recipe temperature").
		After(domain.TaskPreheatOven, domain.TaskMixIngredients).
		Do(func(ctx context.Context, rc *dag.RunContext) (any, error) {
			return b.kitchen.Bake(ctx, rc.Oven, temp)
		})
	d.Add(domain.TaskCoolCake).
		Describe("Let the cake cool").
		After(domain.TaskBakeCake).
		Do(func(ctx context.Context, rc *dag.RunContext) (any, error) {
			b.kitchen.Cool(ctx)
			return nil, nil
		})

	d.Add(domain.TaskGoShopping).
		Describe("Buy the ingredients the pantry lacks").
		After(domain.TaskBranch).
		Do(func(ctx context.Context, rc *dag.RunContext) (any, error) {
			return nil, b.inventory.Shop(ctx, ingredients)
		})
	d.Add(domain.TaskWashDishes).
		Describe("Wash one of each cookware item").
		After(domain.TaskBranch, domain.TaskCoolCake).
		Trigger(dag.NoneFailedMinOneSuccess).
		Do(func(ctx context.Context, rc *dag.RunContext) (any, error) {
			return nil, b.inventory.Wash(ctx, cookware)
		})
	d.Add(domain.TaskReturnIngredients).
		Describe("Put the taken ingredients back in the pantry").
		After(domain.TaskBranch).
		Do(b.release(domain.Ingredients, ingredients))
	d.Add(domain.TaskReturnCookware).
		Describe("Put the taken cookware back in the cabinets").
		After(domain.TaskBranch).
		Do(b.release(domain.Cookware, cookware))

	g, err := d.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build easybake graph: %w", err)
	}
	return g, nil
}

func (b *Bakery) acquire(class domain.ResourceClass, required domain.Ledger) dag.Action {
	return func(ctx context.Context, rc *dag.RunContext) (any, error) {
		return b.inventory.Acquire(ctx, class, required)
	}
}

func (b *Bakery) release(class domain.ResourceClass, held domain.Ledger) dag.Action {
	return func(ctx context.Context, rc *dag.RunContext) (any, error) {
		return nil, b.inventory.Release(ctx, class, held)
	}
}

func (b *Bakery) decide(ctx context.Context, rc *dag.RunContext) (dag.Selection, error) {
	outcome := branch.Outcome{
		HaveIngredients: rc.Bool(domain.TaskGetIngredients),
		HaveCookware:    rc.Bool(domain.TaskGetCookware),
	}
	d := branch.DecideOutcome(outcome)
	b.logger.Info("Branch decided.",
		"decision", d.String(),
		"have_ingredients", outcome.HaveIngredients,
		"have_cookware", outcome.HaveCookware,
	)
	return d, nil
}
