package models

import "slices"

// Inventory is the set of item labels carried by the player. Order follows
// first insertion; duplicates are collapsed.
type Inventory []string

// Merge appends add, drops every label in remove and collapses duplicates.
// A label present in both add and remove ends up removed. The receiver is
// never modified.
func (inv Inventory) Merge(add, remove []string) Inventory {
	merged := make([]string, 0, len(inv)+len(add))
	merged = append(merged, inv...)
	merged = append(merged, add...)

	seen := make(map[string]struct{}, len(merged))
	out := make(Inventory, 0, len(merged))
	for _, item := range merged {
		if slices.Contains(remove, item) {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (inv Inventory) Contains(item string) bool {
	return slices.Contains(inv, item)
}

// Clone returns a copy that shares no backing array with inv.
func (inv Inventory) Clone() Inventory {
	if inv == nil {
		return Inventory{}
	}
	return slices.Clone(inv)
}
