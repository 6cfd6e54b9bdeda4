package domain

import "fmt"

// RoomTemperature is the temperature of a cold oven, below any valid recipe temperature.
const RoomTemperature = 65

// Recipe holds the immutable requirements for one cake.
type Recipe struct {
	Ingredients Ledger `json:"required_ingredients" yaml:"ingredients" mapstructure:"ingredients"`
	Cookware    Ledger `json:"required_cookware" yaml:"cookware" mapstructure:"cookware"`
	Temperature int    `json:"required_temp" yaml:"temperature" mapstructure:"temperature"`
}

// DefaultRecipe returns the classic sponge cake.
func DefaultRecipe() Recipe {
	return Recipe{
		Ingredients: Ledger{
			"eggs":   2,
			"flour":  2,
			"sugar":  1,
			"butter": 1,
			"water":  1,
		},
		Cookware: Ledger{
			"pan":   1,
			"mixer": 1,
			"spoon": 1,
		},
		Temperature: 350,
	}
}

// Requirements returns the required quantities for the given class.
func (r Recipe) Requirements(class ResourceClass) (Ledger, error) {
	switch class {
	case Ingredients:
		return r.Ingredients.Clone(), nil
	case Cookware:
		return r.Cookware.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownResourceClass, class)
}

// Validate checks that every quantity is positive and the temperature is above RoomTemperature.
func (r Recipe) Validate() error {
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("%w: no ingredients", ErrInvalidRecipe)
	}
	if len(r.Cookware) == 0 {
		return fmt.Errorf("%w: no cookware", ErrInvalidRecipe)
	}
	for _, class := range ResourceClasses {
		req, _ := r.Requirements(class)
		for _, item := range req.Items() {
			if item == "" {
				return fmt.Errorf("%w: empty %s name", ErrInvalidRecipe, class)
			}
			if req[item] <= 0 {
				return fmt.Errorf("%w: %s %q requires %d", ErrInvalidRecipe, class, item, req[item])
			}
		}
	}
	if r.Temperature <= RoomTemperature {
		return fmt.Errorf("%w: temperature %d must exceed %d", ErrInvalidRecipe, r.Temperature, RoomTemperature)
	}
	return nil
}
