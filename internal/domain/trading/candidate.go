package trading

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
)

// Candidate is one profitable (ware, from, to) transfer found by a scan
type Candidate struct {
	Ware          *catalog.Ware
	From          *station.Station
	To            *station.Station
	BuyPrice      int
	SellPrice     int
	ProfitPerUnit int
	Amount        int
}

// Score ranks candidates: total profit of the planned amount
func (c *Candidate) Score() int {
	return c.ProfitPerUnit * c.Amount
}

func (c *Candidate) String() string {
	return fmt.Sprintf("Candidate{ware=%s, %s->%s, amount=%d, score=%d}",
		c.Ware.ID(), c.From.ID, c.To.ID, c.Amount, c.Score())
}
