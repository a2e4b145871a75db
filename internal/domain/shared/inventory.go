package shared

import "fmt"

// Inventory is a ware -> quantity holding used for both station stock and
// fleet cargo. Quantities are never negative: Remove clamps to what is held.
type Inventory map[string]int

// NewInventory creates an empty inventory
func NewInventory() Inventory {
	return make(Inventory)
}

// Get returns units held of a ware (0 if not present)
func (inv Inventory) Get(wareID string) int {
	return inv[wareID]
}

// Has checks if at least minUnits of a ware are held
func (inv Inventory) Has(wareID string, minUnits int) bool {
	return inv[wareID] >= minUnits
}

// Add adds units of a ware. Non-positive amounts are ignored.
func (inv Inventory) Add(wareID string, units int) {
	if units <= 0 {
		return
	}
	inv[wareID] += units
}

// Remove takes up to units of a ware and returns how many were actually taken.
func (inv Inventory) Remove(wareID string, units int) int {
	if units <= 0 {
		return 0
	}
	held := inv[wareID]
	taken := units
	if held < taken {
		taken = held
	}
	inv[wareID] = held - taken
	return taken
}

// Set overwrites the holding of a ware, flooring at zero
func (inv Inventory) Set(wareID string, units int) {
	if units < 0 {
		units = 0
	}
	inv[wareID] = units
}

// Total sums all units held across wares
func (inv Inventory) Total() int {
	total := 0
	for _, units := range inv {
		total += units
	}
	return total
}

// IsEmpty checks if nothing is held
func (inv Inventory) IsEmpty() bool {
	return inv.Total() == 0
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for wareID, units := range inv {
		out[wareID] = units
	}
	return out
}

func (inv Inventory) String() string {
	return fmt.Sprintf("Inventory(%d wares, %d units)", len(inv), inv.Total())
}
