package worlddef

// Definition is the on-disk shape of a world file
type Definition struct {
	Name         string                    `yaml:"name" validate:"required"`
	Wares        []WareDef                 `yaml:"wares" validate:"required,min=1,dive"`
	Recipes      []RecipeDef               `yaml:"recipes" validate:"dive"`
	Stations     []StationDef              `yaml:"stations" validate:"dive"`
	Corporations []CorporationDef          `yaml:"corporations" validate:"dive"`
	Fleets       []FleetDef                `yaml:"fleets" validate:"dive"`
	Prices       map[string]map[string]int `yaml:"prices"`
}

type WareDef struct {
	ID         string `yaml:"id" validate:"required"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category" validate:"required,oneof=primary food intermediate end"`
	BasePrice  int    `yaml:"base_price" validate:"gte=0"`
	UnitVolume int    `yaml:"unit_volume" validate:"gte=1"`
}

type RecipeInputDef struct {
	Ware   string `yaml:"ware" validate:"required"`
	Amount int    `yaml:"amount" validate:"gte=1"`
}

type RecipeDef struct {
	ID                string           `yaml:"id" validate:"required"`
	Product           string           `yaml:"product" validate:"required"`
	Inputs            []RecipeInputDef `yaml:"inputs" validate:"dive"`
	CycleTimeSec      float64          `yaml:"cycle_time_sec" validate:"gt=0"`
	BatchSize         int              `yaml:"batch_size" validate:"gte=1"`
	ProductStorageCap int              `yaml:"product_storage_cap" validate:"gte=0"`
}

type StationDef struct {
	ID           string         `yaml:"id" validate:"required"`
	Name         string         `yaml:"name"`
	Recipe       string         `yaml:"recipe" validate:"required"`
	Sector       string         `yaml:"sector" validate:"required"`
	Inventory    map[string]int `yaml:"inventory"`
	ReorderLevel map[string]int `yaml:"reorder_level"`
	ReserveLevel map[string]int `yaml:"reserve_level"`
}

type CorporationDef struct {
	ID       string   `yaml:"id" validate:"required"`
	Name     string   `yaml:"name"`
	Race     string   `yaml:"race"`
	Credits  int      `yaml:"credits"`
	Stations []string `yaml:"stations"`
}

// FleetDef spawns Count fleets (default 1). With Count > 1 the ids become
// "<id>-01", "<id>-02", ...
type FleetDef struct {
	ID         string      `yaml:"id" validate:"required"`
	Owner      string      `yaml:"owner"`
	ShipType   string      `yaml:"ship_type"`
	Capacity   int         `yaml:"capacity" validate:"gte=1"`
	Speed      float64     `yaml:"speed" validate:"gte=0"`
	HomeSector string      `yaml:"home_sector" validate:"required"`
	Position   PositionDef `yaml:"position"`
	Credits    int         `yaml:"credits"`
	Count      int         `yaml:"count" validate:"gte=0,lte=1000"`
}

type PositionDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}
