package trading

// SectorPrices holds the current per-sector price of each ware:
// sector id -> ware id -> credits per unit. Prices are supplied from outside
// the core; a missing entry falls back as described on Matcher.
type SectorPrices map[string]map[string]int

// Price returns the listed price of a ware in a sector
func (p SectorPrices) Price(sectorID, wareID string) (int, bool) {
	wares, ok := p[sectorID]
	if !ok {
		return 0, false
	}
	price, ok := wares[wareID]
	return price, ok
}

// Set lists a price, creating the sector entry if needed
func (p SectorPrices) Set(sectorID, wareID string, price int) {
	wares, ok := p[sectorID]
	if !ok {
		wares = make(map[string]int)
		p[sectorID] = wares
	}
	wares[wareID] = price
}

// Clone returns an independent copy
func (p SectorPrices) Clone() SectorPrices {
	out := make(SectorPrices, len(p))
	for sectorID, wares := range p {
		copied := make(map[string]int, len(wares))
		for wareID, price := range wares {
			copied[wareID] = price
		}
		out[sectorID] = copied
	}
	return out
}
