package analytics

import (
	"github.com/shopspring/decimal"

	"dropzero/backend/services/consumption-service/internal/models"
)

// Consumption is the volume between two cumulative meter values.
type Consumption struct {
	Liters int64
	M3     float64
	exact  decimal.Decimal
}

// Consumed computes the volume used between previous and current cumulative
// readings (both in cubic meters). Callers must ensure current >= previous.
func Consumed(previous, current float64) Consumption {
	diff := decimal.NewFromFloat(current).Sub(decimal.NewFromFloat(previous))
	return Consumption{
		Liters: diff.Mul(decimal.NewFromInt(1000)).Round(0).IntPart(),
		M3:     diff.Round(2).InexactFloat64(),
		exact:  diff,
	}
}

// Cost prices a consumption under the two-part tariff: a fixed weekly charge
// plus a rate per cubic meter, rounded to cents.
func Cost(c Consumption, tariff models.Tariff) models.CostBreakdown {
	volume := c.exact
	if volume.IsZero() && c.M3 != 0 {
		volume = decimal.NewFromFloat(c.M3)
	}
	fixed := decimal.NewFromFloat(tariff.FixedWeeklyCharge)
	variable := volume.Mul(decimal.NewFromFloat(tariff.RatePerM3))
	return models.CostBreakdown{
		FixedCharge:     fixed.Round(2).InexactFloat64(),
		ConsumptionCost: variable.Round(2).InexactFloat64(),
		Total:           fixed.Add(variable).Round(2).InexactFloat64(),
	}
}
