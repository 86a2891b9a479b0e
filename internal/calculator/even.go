package calculator

import "github.com/mmynk/tipsplitter/internal/models"

const (
	MinTipPercent     = 0
	MaxTipPercent     = 30
	DefaultTipPercent = 15
	DefaultNumPeople  = 2
	MinNumPeople      = 1
)

// TipPresets are the quick-pick tip rates offered next to the slider.
var TipPresets = []int{10, 15, 20}

// ClampTipPercent forces a tip rate into [MinTipPercent, MaxTipPercent].
func ClampTipPercent(p int) int {
	return min(max(p, MinTipPercent), MaxTipPercent)
}

// ComputeEvenSplit derives the tip and per-person figures for an even split.
//
//	tip_amount       = bill × tip% / 100
//	total_bill       = bill + tip_amount
//	tip_per_person   = tip_amount / people
//	total_per_person = total_bill / people
//
// It never fails: a negative bill counts as 0 and a head count below one
// yields zero per-person figures.
func ComputeEvenSplit(in models.EvenSplitInput) models.EvenSplitTotals {
	bill := max(in.Bill, 0)
	tipAmount := bill * float64(ClampTipPercent(in.TipPercent)) / 100
	totals := models.EvenSplitTotals{
		TipAmount: tipAmount,
		TotalBill: bill + tipAmount,
	}

	if in.NumPeople > 0 {
		totals.TipPerPerson = totals.TipAmount / float64(in.NumPeople)
		totals.TotalPerPerson = totals.TotalBill / float64(in.NumPeople)
	}
	return totals
}
