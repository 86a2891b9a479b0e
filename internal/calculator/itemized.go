package calculator

import (
	"math"

	"github.com/mmynk/tipsplitter/internal/models"
)

// MismatchTolerance is how far the itemized subtotal may drift from the
// expected total before it is reported as a mismatch.
const MismatchTolerance = 0.01

// PersonSplit represents the calculated share for one person.
type PersonSplit struct {
	PersonID models.ID
	Name     string
	Subtotal float64
	Tip      float64
	Total    float64
}

// ItemizedTotals is the full result of an itemized calculation.
type ItemizedTotals struct {
	// People holds one split per person, in roster order.
	People []PersonSplit

	Subtotal   float64
	TipAmount  float64
	GrandTotal float64

	// HasExpected is set when an expected total was supplied and parsed.
	HasExpected bool
	Expected    float64

	// Mismatch is set when |Expected - Subtotal| exceeds MismatchTolerance.
	Mismatch bool

	// Difference is Expected - Subtotal (signed), or 0 without an expected total.
	Difference float64
}

// Person returns the split for the given person ID.
func (t ItemizedTotals) Person(id models.ID) (PersonSplit, bool) {
	for _, p := range t.People {
		if p.PersonID == id {
			return p, true
		}
	}
	return PersonSplit{}, false
}

// PersonSubtotal sums a person's item prices, treating unparsable prices as 0.
func PersonSubtotal(p models.Person) float64 {
	var sum float64
	for _, item := range p.Items {
		sum += ParseLenientDecimal(item.Price)
	}
	return sum
}

// RosterSubtotal sums every person's subtotal.
func RosterSubtotal(people []models.Person) float64 {
	var sum float64
	for _, p := range people {
		sum += PersonSubtotal(p)
	}
	return sum
}

// ComputeItemized computes how much each person owes including tip.
// Each person's tip is their subtotal at the shared rate, which is the
// aggregate tip allocated in proportion to subtotal share:
//
//	person_tip = person_subtotal × tip% / 100
//
// expectedTotal is the raw expected-total text; an empty or non-numeric
// value disables the mismatch check.
func ComputeItemized(people []models.Person, tipPercent int, expectedTotal string) ItemizedTotals {
	rate := float64(ClampTipPercent(tipPercent)) / 100

	totals := ItemizedTotals{
		People: make([]PersonSplit, len(people)),
	}

	// Calculate each person's subtotal from their own items
	for i, p := range people {
		sub := PersonSubtotal(p)
		totals.People[i] = PersonSplit{
			PersonID: p.ID,
			Name:     p.Name,
			Subtotal: sub,
		}
		totals.Subtotal += sub
	}

	totals.TipAmount = totals.Subtotal * rate
	totals.GrandTotal = totals.Subtotal + totals.TipAmount

	// Apply tip and calculate per-person total
	for i := range totals.People {
		split := &totals.People[i]
		if totals.Subtotal != 0 {
			split.Tip = split.Subtotal * rate
		}
		split.Total = split.Subtotal + split.Tip
	}

	if expected, ok := ParseDecimalPrefix(expectedTotal); ok {
		totals.HasExpected = true
		totals.Expected = expected
		totals.Difference = expected - totals.Subtotal
		totals.Mismatch = math.Abs(totals.Difference) > MismatchTolerance
	}

	return totals
}
