package station_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
)

func farmRecipe(t *testing.T) *catalog.Recipe {
	t.Helper()
	r, err := catalog.NewRecipe("wheat_farm", "wheat", []catalog.RecipeInput{
		{WareID: "energy_cells", AmountPerCycle: 5},
		{WareID: "water", AmountPerCycle: 40},
	}, 60, 10, 500)
	require.NoError(t, err)
	return r
}

func TestSeedInventory_StocksProductAndInputs(t *testing.T) {
	// Arrange
	st, err := station.NewStation("farm-1", "", "wheat_farm", "home_of_light")
	require.NoError(t, err)

	// Act
	st.SeedInventory(farmRecipe(t))

	// Assert
	assert.Equal(t, 200, st.Inventory.Get("wheat"))
	assert.Equal(t, 50, st.Inventory.Get("energy_cells"))
	assert.Equal(t, 120, st.Inventory.Get("water"))
	assert.Equal(t, 50, st.ReorderLevel["energy_cells"])
	assert.Equal(t, 200, st.ReserveLevel["wheat"])
	assert.Equal(t, "farm-1", st.Name)
}

func TestSeedInventory_KeepsExplicitStock(t *testing.T) {
	// Arrange
	st, err := station.NewStation("farm-1", "Farm", "wheat_farm", "home_of_light")
	require.NoError(t, err)
	st.Inventory.Set("energy_cells", 0)

	// Act
	st.SeedInventory(farmRecipe(t))

	// Assert
	assert.Equal(t, 0, st.Inventory.Get("energy_cells"))
	assert.Equal(t, 120, st.Inventory.Get("water"))
}

func TestIsStarved(t *testing.T) {
	recipe := farmRecipe(t)
	st, err := station.NewStation("farm-1", "", "wheat_farm", "home_of_light")
	require.NoError(t, err)

	assert.False(t, st.IsStarved(recipe), "no backlog yet")

	st.ProductionProgress = 60
	assert.True(t, st.IsStarved(recipe))

	st.Inventory.Set("energy_cells", 5)
	st.Inventory.Set("water", 40)
	assert.False(t, st.IsStarved(recipe))
	assert.False(t, st.IsStarved(nil))
}

func TestRelease_ClampsToHolding(t *testing.T) {
	st, err := station.NewStation("mine-1", "", "", "ore_belt")
	require.NoError(t, err)
	st.Receive("ore", 120)

	released := st.Release("ore", 1000)

	assert.Equal(t, 120, released)
	assert.Equal(t, 0, st.Inventory.Get("ore"))
}

func TestNewStation_RequiresSector(t *testing.T) {
	_, err := station.NewStation("mine-1", "", "", "")

	assert.Error(t, err)
}
