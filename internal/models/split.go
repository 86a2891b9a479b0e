package models

import "time"

// EvenSplitInput is the user input for an even split.
type EvenSplitInput struct {
	// Bill is the pre-tip bill amount. Unparsable text has already been
	// coerced to 0 by the time it reaches this struct.
	Bill float64

	// TipPercent is the tip rate in whole percent (0..30).
	TipPercent int

	// NumPeople is the head count. The input control never lets it drop below 1.
	NumPeople int
}

// EvenSplitTotals holds the figures derived from an EvenSplitInput.
type EvenSplitTotals struct {
	TipAmount      float64
	TotalBill      float64
	TipPerPerson   float64
	TotalPerPerson float64
}

// HistoryEntry is a snapshot of an even split at the moment it was recorded.
// The JSON layout matches the "history" storage key.
type HistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Bill           float64   `json:"bill"`
	Currency       Currency  `json:"currency"`
	TipPercent     int       `json:"tipPercent"`
	NumPeople      int       `json:"numPeople"`
	TipAmount      float64   `json:"tipAmount"`
	TotalBill      float64   `json:"totalBill"`
	TipPerPerson   float64   `json:"tipPerPerson"`
	TotalPerPerson float64   `json:"totalPerPerson"`
}

// NewHistoryEntry snapshots an input and its totals.
func NewHistoryEntry(in EvenSplitInput, totals EvenSplitTotals, currency Currency, at time.Time) HistoryEntry {
	return HistoryEntry{
		Timestamp:      at.UTC(),
		Bill:           in.Bill,
		Currency:       currency,
		TipPercent:     in.TipPercent,
		NumPeople:      in.NumPeople,
		TipAmount:      totals.TipAmount,
		TotalBill:      totals.TotalBill,
		TipPerPerson:   totals.TipPerPerson,
		TotalPerPerson: totals.TotalPerPerson,
	}
}

// SameCalculation reports whether two entries describe the same inputs.
// Currency and derived totals are ignored.
func (e HistoryEntry) SameCalculation(other HistoryEntry) bool {
	return e.Bill == other.Bill &&
		e.TipPercent == other.TipPercent &&
		e.NumPeople == other.NumPeople
}
