package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/production"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
)

type productionContext struct {
	scheduler *production.Scheduler
	catalog   *catalog.Catalog
	recipe    *catalog.Recipe
	station   *station.Station
	result    production.Result
	err       error
}

func (pc *productionContext) reset() {
	pc.scheduler = production.NewScheduler()
	pc.catalog = nil
	pc.recipe = nil
	pc.station = nil
	pc.result = production.Result{}
	pc.err = nil
}

// Given steps

func (pc *productionContext) aRecipeProducingFromInput(batch int, product string, cycle int, amount int, input string) error {
	return pc.defineRecipe(product, float64(cycle), batch, 0, []catalog.RecipeInput{
		{WareID: input, AmountPerCycle: amount},
	})
}

func (pc *productionContext) aRecipeProducingWithNoInputs(batch int, product string, cycle int) error {
	return pc.defineRecipe(product, float64(cycle), batch, 0, nil)
}

func (pc *productionContext) aRecipeProducingWithStorageCap(batch int, product string, cycle int, storageCap int) error {
	return pc.defineRecipe(product, float64(cycle), batch, storageCap, nil)
}

func (pc *productionContext) defineRecipe(product string, cycle float64, batch, storageCap int, inputs []catalog.RecipeInput) error {
	wareIDs := []string{product}
	for _, in := range inputs {
		wareIDs = append(wareIDs, in.WareID)
	}

	wares := make([]*catalog.Ware, 0, len(wareIDs))
	for _, id := range wareIDs {
		w, err := catalog.NewWare(id, id, catalog.CategoryIntermediate, 10, 1)
		if err != nil {
			return err
		}
		wares = append(wares, w)
	}

	recipe, err := catalog.NewRecipe(product+"_factory", product, inputs, cycle, batch, storageCap)
	if err != nil {
		return err
	}

	cat, err := catalog.New(wares, []*catalog.Recipe{recipe})
	if err != nil {
		return err
	}

	pc.catalog = cat
	pc.recipe = recipe
	return nil
}

func (pc *productionContext) aStationRunningThatRecipeHolding(amount int, wareID string) error {
	if pc.recipe == nil {
		return fmt.Errorf("no recipe defined")
	}
	if pc.station == nil {
		st, err := station.NewStation("factory-1", "Factory", pc.recipe.ID(), "argon_prime")
		if err != nil {
			return err
		}
		pc.station = st
	}
	pc.station.Inventory.Set(wareID, amount)
	return nil
}

// When steps

func (pc *productionContext) productionAdvancesBy(seconds int) error {
	return pc.productionAdvancesTimesBy(1, seconds)
}

func (pc *productionContext) productionAdvancesTimesBy(times, seconds int) error {
	if pc.station == nil {
		return fmt.Errorf("no station defined")
	}
	pc.result = production.Result{}
	for i := 0; i < times; i++ {
		r := pc.scheduler.Advance([]*station.Station{pc.station}, pc.catalog, float64(seconds))
		pc.result.Outputs = append(pc.result.Outputs, r.Outputs...)
		pc.result.Starved = r.Starved
	}
	return nil
}

func (pc *productionContext) unitsAreDeliveredToTheStation(amount int, wareID string) error {
	if pc.station == nil {
		return fmt.Errorf("no station defined")
	}
	pc.station.Receive(wareID, amount)
	return nil
}

// Then steps

func (pc *productionContext) theStationShouldHold(expected int, wareID string) error {
	if got := pc.station.Inventory.Get(wareID); got != expected {
		return fmt.Errorf("expected station to hold %d %s, got %d", expected, wareID, got)
	}
	return nil
}

func (pc *productionContext) theProductionProgressShouldBe(expected int) error {
	if math.Abs(pc.station.ProductionProgress-float64(expected)) > 1e-9 {
		return fmt.Errorf("expected production progress %d, got %f", expected, pc.station.ProductionProgress)
	}
	return nil
}

func (pc *productionContext) batchesShouldHaveBeenProduced(expected int) error {
	if got := pc.result.TotalBatches(); got != expected {
		return fmt.Errorf("expected %d batches, got %d", expected, got)
	}
	return nil
}

func (pc *productionContext) theStationShouldBeStarved() error {
	if len(pc.result.Starved) != 1 {
		return fmt.Errorf("expected the station to be reported starved, got %v", pc.result.Starved)
	}
	return nil
}

func (pc *productionContext) theStationShouldNotBeStarved() error {
	if len(pc.result.Starved) != 0 {
		return fmt.Errorf("expected no starved stations, got %v", pc.result.Starved)
	}
	return nil
}

func InitializeProductionScenario(ctx *godog.ScenarioContext) {
	pc := &productionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a recipe producing (\d+) "([^"]*)" every (\d+) seconds from (\d+) "([^"]*)"$`, pc.aRecipeProducingFromInput)
	ctx.Step(`^a recipe producing (\d+) "([^"]*)" every (\d+) seconds with no inputs$`, pc.aRecipeProducingWithNoInputs)
	ctx.Step(`^a recipe producing (\d+) "([^"]*)" every (\d+) seconds with a storage cap of (\d+)$`, pc.aRecipeProducingWithStorageCap)
	ctx.Step(`^a station running that recipe holding (\d+) "([^"]*)"$`, pc.aStationRunningThatRecipeHolding)

	// When steps
	ctx.Step(`^production advances by (\d+) seconds$`, pc.productionAdvancesBy)
	ctx.Step(`^production advances (\d+) times by (\d+) seconds$`, pc.productionAdvancesTimesBy)
	ctx.Step(`^(\d+) "([^"]*)" (?:is|are) delivered to the station$`, pc.unitsAreDeliveredToTheStation)

	// Then steps
	ctx.Step(`^the station should hold (\d+) "([^"]*)"$`, pc.theStationShouldHold)
	ctx.Step(`^the production progress should be (\d+) seconds$`, pc.theProductionProgressShouldBe)
	ctx.Step(`^(\d+) batch(?:es)? should have been produced$`, pc.batchesShouldHaveBeenProduced)
	ctx.Step(`^the station should be starved$`, pc.theStationShouldBeStarved)
	ctx.Step(`^the station should not be starved$`, pc.theStationShouldNotBeStarved)
}
