package worlddef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/corporation"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/config"
)

// Load reads and validates a world definition file
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a YAML world definition. Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("world definition is empty")
		}
		return nil, fmt.Errorf("failed to parse world definition: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks field constraints. Cross references are checked when the
// seed is built.
func (d *Definition) Validate() error {
	if err := config.NewValidator().Validate(d); err != nil {
		return fmt.Errorf("invalid world definition: %w", err)
	}
	return nil
}

// Seed converts the definition into a world seed. A station whose recipe is
// not in the catalog is kept and stays inert.
func (d *Definition) Seed() (simulation.WorldSeed, error) {
	cat, err := d.buildCatalog()
	if err != nil {
		return simulation.WorldSeed{}, err
	}

	stations := make([]*station.Station, 0, len(d.Stations))
	for _, sd := range d.Stations {
		st, err := station.NewStation(sd.ID, sd.Name, sd.Recipe, sd.Sector)
		if err != nil {
			return simulation.WorldSeed{}, err
		}
		for wareID, units := range sd.Inventory {
			if _, ok := cat.Ware(wareID); !ok {
				return simulation.WorldSeed{}, shared.NewUnknownReferenceError("ware", wareID)
			}
			st.Inventory.Set(wareID, units)
		}
		for wareID, level := range sd.ReorderLevel {
			st.ReorderLevel[wareID] = level
		}
		for wareID, level := range sd.ReserveLevel {
			st.ReserveLevel[wareID] = level
		}
		stations = append(stations, st)
	}

	corps := make([]*corporation.Corporation, 0, len(d.Corporations))
	for _, cd := range d.Corporations {
		c, err := corporation.NewCorporation(cd.ID, cd.Name, cd.Race, cd.Credits)
		if err != nil {
			return simulation.WorldSeed{}, err
		}
		for _, stationID := range cd.Stations {
			c.AttachStation(stationID)
		}
		corps = append(corps, c)
	}

	var spawns []fleet.SpawnConfig
	for _, fd := range d.Fleets {
		spawns = append(spawns, fd.spawnConfigs()...)
	}

	prices := make(trading.SectorPrices, len(d.Prices))
	for sectorID, wares := range d.Prices {
		for wareID, price := range wares {
			if _, ok := cat.Ware(wareID); !ok {
				return simulation.WorldSeed{}, shared.NewUnknownReferenceError("ware", wareID)
			}
			prices.Set(sectorID, wareID, price)
		}
	}

	return simulation.WorldSeed{
		Catalog:      cat,
		Stations:     stations,
		Corporations: corps,
		Fleets:       spawns,
		Prices:       prices,
	}, nil
}

// Build seeds and assembles a world in one step
func (d *Definition) Build() (*simulation.World, error) {
	seed, err := d.Seed()
	if err != nil {
		return nil, err
	}
	return simulation.NewWorld(seed)
}

func (d *Definition) buildCatalog() (*catalog.Catalog, error) {
	wares := make([]*catalog.Ware, 0, len(d.Wares))
	for _, wd := range d.Wares {
		w, err := catalog.NewWare(wd.ID, wd.Name, catalog.Category(wd.Category), wd.BasePrice, wd.UnitVolume)
		if err != nil {
			return nil, err
		}
		wares = append(wares, w)
	}

	recipes := make([]*catalog.Recipe, 0, len(d.Recipes))
	for _, rd := range d.Recipes {
		inputs := make([]catalog.RecipeInput, 0, len(rd.Inputs))
		for _, in := range rd.Inputs {
			inputs = append(inputs, catalog.RecipeInput{WareID: in.Ware, AmountPerCycle: in.Amount})
		}
		r, err := catalog.NewRecipe(rd.ID, rd.Product, inputs, rd.CycleTimeSec, rd.BatchSize, rd.ProductStorageCap)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}

	return catalog.New(wares, recipes)
}

func (fd FleetDef) spawnConfigs() []fleet.SpawnConfig {
	count := fd.Count
	if count <= 0 {
		count = 1
	}

	configs := make([]fleet.SpawnConfig, 0, count)
	for i := 1; i <= count; i++ {
		id := fd.ID
		if count > 1 {
			id = fmt.Sprintf("%s-%02d", fd.ID, i)
		}
		configs = append(configs, fleet.SpawnConfig{
			ID:           id,
			OwnerID:      fd.Owner,
			ShipType:     fd.ShipType,
			Capacity:     fd.Capacity,
			Speed:        fd.Speed,
			HomeSectorID: fd.HomeSector,
			Position:     shared.NewPosition(fd.Position.X, fd.Position.Y, fd.Position.Z),
			Credits:      fd.Credits,
		})
	}
	return configs
}
