package domain

import "errors"

// ErrStorageUnavailable is returned when a ledger document cannot be read or written.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrPreconditionViolated is returned when an item is released into a ledger that never held it.
var ErrPreconditionViolated = errors.New("precondition violated")

// ErrTemperatureMismatch is returned by a strict bake when the oven is not at the recipe temperature.
var ErrTemperatureMismatch = errors.New("oven temperature mismatch")

// ErrInvalidRecipe is returned when a recipe fails validation.
var ErrInvalidRecipe = errors.New("invalid recipe")

// ErrUnknownResourceClass is returned for a resource class other than ingredients or cookware.
var ErrUnknownResourceClass = errors.New("unknown resource class")
