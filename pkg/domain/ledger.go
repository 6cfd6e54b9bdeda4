package domain

import (
	"fmt"
	"sort"
)

// ResourceClass identifies one of the two inventory ledgers.
type ResourceClass string

const (
	Ingredients ResourceClass = "ingredients" // Consumables, kept in the pantry
	Cookware    ResourceClass = "cookware"    // Reusable items, kept in the cabinets
)

// ResourceClasses lists every known class in a stable order.
var ResourceClasses = []ResourceClass{Ingredients, Cookware}

// ParseResourceClass converts user input into a ResourceClass.
func ParseResourceClass(s string) (ResourceClass, error) {
	switch ResourceClass(s) {
	case Ingredients, Cookware:
		return ResourceClass(s), nil
	case "pantry":
		return Ingredients, nil
	case "cabinets":
		return Cookware, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResourceClass, s)
}

// Validate reports ErrUnknownResourceClass for anything but Ingredients and Cookware.
func (c ResourceClass) Validate() error {
	if c != Ingredients && c != Cookware {
		return fmt.Errorf("%w: %q", ErrUnknownResourceClass, string(c))
	}
	return nil
}

// Ledger maps an item name to its on-hand quantity.
// Quantities are never negative.
type Ledger map[string]int

// Clone returns an independent copy of the ledger.
// A nil ledger clones to an empty, non-nil one.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Validate reports the first negative quantity, if any.
func (l Ledger) Validate() error {
	for _, item := range l.Items() {
		if l[item] < 0 {
			return fmt.Errorf("item %q has negative quantity %d", item, l[item])
		}
	}
	return nil
}

// Items returns the item names sorted alphabetically.
func (l Ledger) Items() []string {
	items := make([]string, 0, len(l))
	for k := range l {
		items = append(items, k)
	}
	sort.Strings(items)
	return items
}

// Total sums every quantity in the ledger.
func (l Ledger) Total() int {
	total := 0
	for _, v := range l {
		total += v
	}
	return total
}
