package catalog

import (
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

// Catalog is the immutable reference data for wares and recipes.
// It is built once at world-init and only read afterwards.
type Catalog struct {
	wares       map[string]*Ware
	wareOrder   []string
	recipes     map[string]*Recipe
	recipeOrder []string
}

// New builds a catalog, rejecting duplicate ids and recipes that reference
// wares not present in the ware list.
func New(wares []*Ware, recipes []*Recipe) (*Catalog, error) {
	c := &Catalog{
		wares:     make(map[string]*Ware, len(wares)),
		wareOrder: make([]string, 0, len(wares)),
		recipes:   make(map[string]*Recipe, len(recipes)),
	}

	for _, w := range wares {
		if _, exists := c.wares[w.ID()]; exists {
			return nil, shared.NewDuplicateIDError("ware", w.ID())
		}
		c.wares[w.ID()] = w
		c.wareOrder = append(c.wareOrder, w.ID())
	}

	for _, r := range recipes {
		if _, exists := c.recipes[r.ID()]; exists {
			return nil, shared.NewDuplicateIDError("recipe", r.ID())
		}
		if _, ok := c.wares[r.ProductID()]; !ok {
			return nil, shared.NewUnknownReferenceError("ware", r.ProductID())
		}
		for _, in := range r.Inputs() {
			if _, ok := c.wares[in.WareID]; !ok {
				return nil, shared.NewUnknownReferenceError("ware", in.WareID)
			}
		}
		c.recipes[r.ID()] = r
		c.recipeOrder = append(c.recipeOrder, r.ID())
	}

	return c, nil
}

// Ware looks up a ware by id
func (c *Catalog) Ware(id string) (*Ware, bool) {
	w, ok := c.wares[id]
	return w, ok
}

// Recipe looks up a recipe by id
func (c *Catalog) Recipe(id string) (*Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

// Wares returns all wares in declaration order
func (c *Catalog) Wares() []*Ware {
	out := make([]*Ware, 0, len(c.wareOrder))
	for _, id := range c.wareOrder {
		out = append(out, c.wares[id])
	}
	return out
}

// Recipes returns all recipes in declaration order
func (c *Catalog) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		out = append(out, c.recipes[id])
	}
	return out
}
