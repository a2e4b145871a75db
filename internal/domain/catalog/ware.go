package catalog

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

// Category groups wares by their place in the production chain.
// It is informational only; nothing in the engine branches on it.
type Category string

const (
	CategoryPrimary      Category = "primary"
	CategoryFood         Category = "food"
	CategoryIntermediate Category = "intermediate"
	CategoryEnd          Category = "end"
)

var validCategories = map[Category]bool{
	CategoryPrimary:      true,
	CategoryFood:         true,
	CategoryIntermediate: true,
	CategoryEnd:          true,
}

// IsValid checks if the category is one of the known categories
func (c Category) IsValid() bool {
	return validCategories[c]
}

// Ware is an immutable tradable good definition
type Ware struct {
	id         string
	name       string
	category   Category
	basePrice  int
	unitVolume int
}

// NewWare creates a ware with validation
func NewWare(id, name string, category Category, basePrice, unitVolume int) (*Ware, error) {
	if id == "" {
		return nil, shared.NewValidationError("ware.id", "cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("ware.category", fmt.Sprintf("invalid category %q for %s", category, id))
	}
	if basePrice < 0 {
		return nil, shared.NewValidationError("ware.base_price", "must be non-negative")
	}
	if unitVolume <= 0 {
		return nil, shared.NewValidationError("ware.unit_volume", "must be positive")
	}
	if name == "" {
		name = id
	}

	return &Ware{
		id:         id,
		name:       name,
		category:   category,
		basePrice:  basePrice,
		unitVolume: unitVolume,
	}, nil
}

func (w *Ware) ID() string {
	return w.id
}

func (w *Ware) Name() string {
	return w.name
}

func (w *Ware) Category() Category {
	return w.category
}

func (w *Ware) BasePrice() int {
	return w.basePrice
}

func (w *Ware) UnitVolume() int {
	return w.unitVolume
}

// UnitsFitting returns how many whole units fit into the given cargo volume
func (w *Ware) UnitsFitting(volume int) int {
	if volume <= 0 {
		return 0
	}
	return volume / w.unitVolume
}

func (w *Ware) String() string {
	return fmt.Sprintf("Ware(%s)", w.id)
}
