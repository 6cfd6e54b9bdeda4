// Package branch decides which task set runs after the inventory checks.
package branch

import "github.com/aretw0/easybake/pkg/domain"

// Outcome is the pair of results produced by the two acquisition tasks.
type Outcome struct {
	HaveIngredients bool `json:"have_ingredients"`
	HaveCookware    bool `json:"have_cookware"`
}

// Decision names one of the four task sets that can follow the branch.
type Decision int

const (
	// Bake: everything is available, start baking.
	Bake Decision = iota
	// Replenish: nothing is available, go shopping and wash the dishes.
	Replenish
	// ShopAndReturnCookware: ingredients are missing, put the cookware back.
	ShopAndReturnCookware
	// WashAndReturnIngredients: cookware is dirty, put the ingredients back.
	WashAndReturnIngredients
)

// Decisions lists every Decision.
var Decisions = []Decision{Bake, Replenish, ShopAndReturnCookware, WashAndReturnIngredients}

// Decide maps the two acquisition results to the next task set.
// All four combinations are covered.
func Decide(haveIngredients, haveCookware bool) Decision {
	switch {
	case haveIngredients && haveCookware:
		return Bake
	case !haveIngredients && !haveCookware:
		return Replenish
	case !haveIngredients:
		return ShopAndReturnCookware
	default:
		return WashAndReturnIngredients
	}
}

// DecideOutcome is Decide over an Outcome.
func DecideOutcome(o Outcome) Decision {
	return Decide(o.HaveIngredients, o.HaveCookware)
}

// Tasks returns the tasks selected by the decision.
func (d Decision) Tasks() []domain.TaskID {
	switch d {
	case Bake:
		return []domain.TaskID{domain.TaskPreheatOven, domain.TaskMixIngredients}
	case Replenish:
		return []domain.TaskID{domain.TaskGoShopping, domain.TaskWashDishes}
	case ShopAndReturnCookware:
		return []domain.TaskID{domain.TaskGoShopping, domain.TaskReturnCookware}
	case WashAndReturnIngredients:
		return []domain.TaskID{domain.TaskWashDishes, domain.TaskReturnIngredients}
	}
	return nil
}

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case Bake:
		return "bake"
	case Replenish:
		return "replenish"
	case ShopAndReturnCookware:
		return "shop_and_return_cookware"
	case WashAndReturnIngredients:
		return "wash_and_return_ingredients"
	}
	return "unknown"
}

// MarshalText renders the decision by name in reports.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
