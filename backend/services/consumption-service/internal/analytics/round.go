package analytics

import "github.com/shopspring/decimal"

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func round1(v float64) float64 { return round(v, 1) }

func round2(v float64) float64 { return round(v, 2) }
