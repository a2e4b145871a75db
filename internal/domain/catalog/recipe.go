package catalog

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

// RecipeInput is one ware consumed per production cycle
type RecipeInput struct {
	WareID         string
	AmountPerCycle int
}

// Recipe maps input wares to one output ware over a fixed cycle.
//
// Invariants:
// - CycleTimeSec and BatchSize are positive
// - Inputs keep their declared order
// - ProductStorageCap of zero means the product stock is unbounded
type Recipe struct {
	id                string
	productID         string
	inputs            []RecipeInput
	cycleTimeSec      float64
	batchSize         int
	productStorageCap int
}

// NewRecipe creates a recipe with validation
func NewRecipe(id, productID string, inputs []RecipeInput, cycleTimeSec float64, batchSize, productStorageCap int) (*Recipe, error) {
	if id == "" {
		return nil, shared.NewValidationError("recipe.id", "cannot be empty")
	}
	if productID == "" {
		return nil, shared.NewValidationError("recipe.product_id", fmt.Sprintf("cannot be empty for %s", id))
	}
	if cycleTimeSec <= 0 {
		return nil, shared.NewValidationError("recipe.cycle_time_sec", fmt.Sprintf("must be positive for %s", id))
	}
	if batchSize <= 0 {
		return nil, shared.NewValidationError("recipe.batch_size", fmt.Sprintf("must be positive for %s", id))
	}
	if productStorageCap < 0 {
		return nil, shared.NewValidationError("recipe.product_storage_cap", fmt.Sprintf("must be non-negative for %s", id))
	}
	for _, in := range inputs {
		if in.WareID == "" || in.AmountPerCycle <= 0 {
			return nil, shared.NewValidationError("recipe.inputs", fmt.Sprintf("invalid input %+v for %s", in, id))
		}
	}

	copied := make([]RecipeInput, len(inputs))
	copy(copied, inputs)

	return &Recipe{
		id:                id,
		productID:         productID,
		inputs:            copied,
		cycleTimeSec:      cycleTimeSec,
		batchSize:         batchSize,
		productStorageCap: productStorageCap,
	}, nil
}

func (r *Recipe) ID() string {
	return r.id
}

func (r *Recipe) ProductID() string {
	return r.productID
}

// Inputs returns a copy of the ordered input list
func (r *Recipe) Inputs() []RecipeInput {
	out := make([]RecipeInput, len(r.inputs))
	copy(out, r.inputs)
	return out
}

func (r *Recipe) CycleTimeSec() float64 {
	return r.cycleTimeSec
}

func (r *Recipe) BatchSize() int {
	return r.batchSize
}

func (r *Recipe) ProductStorageCap() int {
	return r.productStorageCap
}

// InputsAvailable checks whether one full cycle of inputs is held
func (r *Recipe) InputsAvailable(stock shared.Inventory) bool {
	for _, in := range r.inputs {
		if !stock.Has(in.WareID, in.AmountPerCycle) {
			return false
		}
	}
	return true
}

func (r *Recipe) String() string {
	return fmt.Sprintf("Recipe(%s -> %s, %d per %.0fs)", r.id, r.productID, r.batchSize, r.cycleTimeSec)
}
