// Package loyalty maps accumulated points to a discount tier.
package loyalty

// Tier is one row of the threshold table.
type Tier struct {
	MinPoints   int
	Name        string
	DiscountPct float64
}

// tiers is ordered by MinPoints ascending. TierFor picks the highest
// threshold not exceeding the holder's points.
var tiers = []Tier{
	{MinPoints: 0, Name: "ribeirinho", DiscountPct: 0},
	{MinPoints: 500, Name: "navegante", DiscountPct: 2},
	{MinPoints: 2000, Name: "piloto", DiscountPct: 5},
	{MinPoints: 5000, Name: "comandante", DiscountPct: 8},
	{MinPoints: 10000, Name: "almirante", DiscountPct: 12},
}

// TierFor returns the tier for the given point total. Negative totals fall
// into the base tier.
func TierFor(totalPoints int) Tier {
	current := tiers[0]
	for _, t := range tiers[1:] {
		if totalPoints >= t.MinPoints {
			current = t
		}
	}
	return current
}
