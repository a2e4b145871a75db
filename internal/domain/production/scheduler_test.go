package production_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/production"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
)

func farmCatalog(t *testing.T, storageCap int) *catalog.Catalog {
	t.Helper()
	cells, err := catalog.NewWare("energy_cells", "Energy Cells", catalog.CategoryPrimary, 16, 1)
	require.NoError(t, err)
	wheat, err := catalog.NewWare("wheat", "Wheat", catalog.CategoryFood, 30, 2)
	require.NoError(t, err)
	recipe, err := catalog.NewRecipe("wheat_farm", "wheat", []catalog.RecipeInput{
		{WareID: "energy_cells", AmountPerCycle: 5},
	}, 60, 10, storageCap)
	require.NoError(t, err)

	cat, err := catalog.New([]*catalog.Ware{cells, wheat}, []*catalog.Recipe{recipe})
	require.NoError(t, err)
	return cat
}

func farmStation(t *testing.T, cells int) *station.Station {
	t.Helper()
	st, err := station.NewStation("farm-1", "Farm", "wheat_farm", "home_of_light")
	require.NoError(t, err)
	st.Inventory.Set("energy_cells", cells)
	return st
}

func TestAdvance_StarvedStationKeepsProgress(t *testing.T) {
	// Arrange
	cat := farmCatalog(t, 0)
	st := farmStation(t, 0)
	scheduler := production.NewScheduler()

	// Act
	result := scheduler.Advance([]*station.Station{st}, cat, 600)

	// Assert
	assert.Equal(t, 0, result.TotalBatches())
	assert.Equal(t, []string{"farm-1"}, result.Starved)
	assert.Equal(t, 600.0, st.ProductionProgress)
	assert.Equal(t, 0, st.Inventory.Get("wheat"))

	// Act: inputs arrive
	st.Receive("energy_cells", 5)
	result = scheduler.Advance([]*station.Station{st}, cat, 0)

	// Assert: exactly one batch of the backlog
	assert.Equal(t, 1, result.TotalBatches())
	assert.Equal(t, 540.0, st.ProductionProgress)
	assert.Equal(t, 10, st.Inventory.Get("wheat"))
	assert.Equal(t, 0, st.Inventory.Get("energy_cells"))
}

func TestAdvance_CatchUpMatchesSubsteps(t *testing.T) {
	// Arrange
	cat := farmCatalog(t, 0)
	once := farmStation(t, 1000)
	sliced := farmStation(t, 1000)
	scheduler := production.NewScheduler()

	// Act
	scheduler.Advance([]*station.Station{once}, cat, 300)
	for i := 0; i < 10; i++ {
		scheduler.Advance([]*station.Station{sliced}, cat, 30)
	}

	// Assert
	assert.Equal(t, 50, once.Inventory.Get("wheat"))
	assert.Equal(t, 50, sliced.Inventory.Get("wheat"))
	assert.Equal(t, 0.0, once.ProductionProgress)
	assert.Equal(t, 0.0, sliced.ProductionProgress)
	assert.Equal(t, once.Inventory.Get("energy_cells"), sliced.Inventory.Get("energy_cells"))
}

func TestAdvance_StorageCapClampsOutputButConsumesInputs(t *testing.T) {
	// Arrange
	cat := farmCatalog(t, 15)
	st := farmStation(t, 100)
	scheduler := production.NewScheduler()

	// Act
	result := scheduler.Advance([]*station.Station{st}, cat, 120)

	// Assert
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, 2, result.Outputs[0].Batches)
	assert.Equal(t, 15, result.Outputs[0].Units)
	assert.Equal(t, 15, st.Inventory.Get("wheat"))
	assert.Equal(t, 90, st.Inventory.Get("energy_cells"))
}

func TestAdvance_UnknownRecipeIsInert(t *testing.T) {
	cat := farmCatalog(t, 0)
	st, err := station.NewStation("ghost", "", "missing_recipe", "void")
	require.NoError(t, err)

	result := production.NewScheduler().Advance([]*station.Station{st}, cat, 600)

	assert.Empty(t, result.Outputs)
	assert.Equal(t, 0.0, st.ProductionProgress)
}

func TestAdvance_IgnoresInvalidSteps(t *testing.T) {
	cat := farmCatalog(t, 0)
	st := farmStation(t, 100)
	scheduler := production.NewScheduler()

	for _, delta := range []float64{-60, math.NaN(), math.Inf(1)} {
		scheduler.Advance([]*station.Station{st}, cat, delta)
	}

	assert.Equal(t, 0.0, st.ProductionProgress)
	assert.Equal(t, 100, st.Inventory.Get("energy_cells"))
}
