package evm

import "github.com/shopspring/decimal"

// Confidence is how likely a committed cost is to materialise.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

var confidenceWeights = map[Confidence]decimal.Decimal{
	ConfidenceHigh:   decimal.RequireFromString("0.95"),
	ConfidenceMedium: decimal.RequireFromString("0.80"),
	ConfidenceLow:    decimal.RequireFromString("0.60"),
}

// Weight returns the weighting factor for the confidence level, or zero for
// an unknown level.
func (c Confidence) Weight() decimal.Decimal {
	return confidenceWeights[c]
}

// Valid reports whether c is one of the three known levels.
func (c Confidence) Valid() bool {
	_, ok := confidenceWeights[c]
	return ok
}

// ObligationStatus is the lifecycle state of an obligation.
type ObligationStatus string

const (
	ObligationActive    ObligationStatus = "active"
	ObligationCancelled ObligationStatus = "cancelled"
	ObligationConverted ObligationStatus = "converted_to_actual"
)

// Obligation is a committed cost that has not yet been incurred.
type Obligation struct {
	Amount     decimal.Decimal
	Confidence Confidence
	Status     ObligationStatus
}

// ObligationTotals is the result of weighting a set of obligations.
type ObligationTotals struct {
	Count    int
	Total    decimal.Decimal
	Weighted decimal.Decimal
	// ByConfidence holds the simple total per confidence level.
	ByConfidence map[Confidence]decimal.Decimal
}

// WeighObligations sums active obligations, both as-is and weighted by
// confidence. Cancelled and converted obligations are ignored entirely; a
// converted obligation is expected to exist as an actual cost entry.
func WeighObligations(obligations []Obligation) ObligationTotals {
	totals := ObligationTotals{
		Total:        decimal.Zero,
		Weighted:     decimal.Zero,
		ByConfidence: make(map[Confidence]decimal.Decimal, len(confidenceWeights)),
	}
	for c := range confidenceWeights {
		totals.ByConfidence[c] = decimal.Zero
	}

	for _, o := range obligations {
		if o.Status != ObligationActive {
			continue
		}
		totals.Count++
		totals.Total = totals.Total.Add(o.Amount)
		totals.Weighted = totals.Weighted.Add(o.Amount.Mul(o.Confidence.Weight()))
		if o.Confidence.Valid() {
			totals.ByConfidence[o.Confidence] = totals.ByConfidence[o.Confidence].Add(o.Amount)
		}
	}
	return totals
}
