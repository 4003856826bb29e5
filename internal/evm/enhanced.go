package evm

// AdjustedPoint is a timeline point with the obligation-adjusted metrics.
type AdjustedPoint struct {
	Point
	WeightedObligations float64 `json:"weighted_obligations"`
	CPIAdjusted         Index   `json:"cpi_adjusted"`
	EACAdjusted         float64 `json:"eac_adjusted"`
	VACAdjusted         float64 `json:"vac_adjusted"`
}

// EnhancedTimeline is a Timeline whose points also account for committed
// obligations.
type EnhancedTimeline struct {
	Timeline
	AdjustedPoints       []AdjustedPoint  `json:"timeline_data"`
	Obligations          ObligationTotals `json:"-"`
	AdjustedOverrunPoint *OverrunPoint    `json:"adjusted_overrun_point"`
}

// BuildEnhancedTimeline builds the standard timeline and layers the weighted
// obligations on top. Obligations are known only as of today, so historical
// months before the current one carry none.
func BuildEnhancedTimeline(in Input, opts Options) EnhancedTimeline {
	t := BuildTimeline(in, opts)
	totals := WeighObligations(in.Obligations)
	weighted := totals.Weighted.InexactFloat64()
	bac := in.Baseline.BAC

	e := EnhancedTimeline{
		Timeline:       t,
		AdjustedPoints: make([]AdjustedPoint, 0, len(t.Points)),
		Obligations:    totals,
	}
	for i, p := range t.Points {
		w := weighted
		if !p.IsFuture && i < t.historyEnd-1 {
			w = 0
		}
		s := Evaluate(Measures{
			BAC:                 bac,
			AC:                  p.ActualCost,
			EV:                  p.EarnedValue,
			PV:                  p.PlannedValue,
			WeightedObligations: w,
		})
		ap := AdjustedPoint{
			Point:               p,
			WeightedObligations: w,
			CPIAdjusted:         s.CPIAdjusted,
			EACAdjusted:         s.EACAdjusted,
			VACAdjusted:         s.VACAdjusted,
		}
		e.AdjustedPoints = append(e.AdjustedPoints, ap)

		if p.IsFuture && e.AdjustedOverrunPoint == nil && p.ActualCost+w > bac {
			e.AdjustedOverrunPoint = &OverrunPoint{
				Month:          p.Month,
				ProjectedCost:  p.ActualCost + w,
				EAC:            s.EACAdjusted,
				AmountExceeded: p.ActualCost + w - bac,
				IsPrediction:   true,
			}
		}
	}
	return e
}
