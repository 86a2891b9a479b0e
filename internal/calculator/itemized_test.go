package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/tipsplitter/internal/models"
)

func person(id, name string, prices ...string) models.Person {
	p := models.Person{ID: models.ID(id), Name: name}
	for i, price := range prices {
		p.Items = append(p.Items, models.Item{
			ID:    models.ID(id + "-" + string(rune('a'+i))),
			Price: price,
		})
	}
	return p
}

func TestComputeItemized(t *testing.T) {
	tests := []struct {
		name          string
		people        []models.Person
		tipPercent    int
		expectedTotal string
		validateFunc  func(t *testing.T, totals ItemizedTotals)
	}{
		{
			name: "two people with ten percent tip",
			people: []models.Person{
				person("a", "Alice", "12.50", "7.50"),
				person("b", "Bob", "30.00"),
			},
			tipPercent: 10,
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				// Alice: subtotal = 20, tip = 2, total = 22
				// Bob: subtotal = 30, tip = 3, total = 33
				if math.Abs(totals.Subtotal-50.0) > 1e-9 {
					t.Errorf("subtotal = %v, want 50.0", totals.Subtotal)
				}
				if math.Abs(totals.TipAmount-5.0) > 1e-9 {
					t.Errorf("tip = %v, want 5.0", totals.TipAmount)
				}
				if math.Abs(totals.GrandTotal-55.0) > 1e-9 {
					t.Errorf("grand total = %v, want 55.0", totals.GrandTotal)
				}

				alice, ok := totals.Person("a")
				if !ok {
					t.Fatal("missing split for Alice")
				}
				if math.Abs(alice.Tip-2.0) > 1e-9 {
					t.Errorf("Alice tip = %v, want 2.0", alice.Tip)
				}
				if math.Abs(alice.Total-22.0) > 1e-9 {
					t.Errorf("Alice total = %v, want 22.0", alice.Total)
				}

				bob, _ := totals.Person("b")
				if math.Abs(bob.Tip-3.0) > 1e-9 {
					t.Errorf("Bob tip = %v, want 3.0", bob.Tip)
				}
				if math.Abs(bob.Total-33.0) > 1e-9 {
					t.Errorf("Bob total = %v, want 33.0", bob.Total)
				}
				if totals.HasExpected || totals.Mismatch {
					t.Error("expected no mismatch check without an expected total")
				}
			},
		},
		{
			name: "unparsable prices count as zero",
			people: []models.Person{
				person("a", "Alice", "abc", "", "4.5"),
			},
			tipPercent: 20,
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				if math.Abs(totals.Subtotal-4.5) > 1e-9 {
					t.Errorf("subtotal = %v, want 4.5", totals.Subtotal)
				}
				if math.Abs(totals.GrandTotal-5.4) > 1e-9 {
					t.Errorf("grand total = %v, want 5.4", totals.GrandTotal)
				}
			},
		},
		{
			name: "zero subtotal gives everyone zero tip",
			people: []models.Person{
				person("a", "Alice"),
				person("b", "Bob", ""),
			},
			tipPercent: 15,
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				for _, split := range totals.People {
					if split.Tip != 0 || split.Total != 0 {
						t.Errorf("%s: tip = %v, total = %v, want 0", split.Name, split.Tip, split.Total)
					}
				}
				if totals.GrandTotal != 0 {
					t.Errorf("grand total = %v, want 0", totals.GrandTotal)
				}
			},
		},
		{
			name: "expected total above subtotal is a mismatch",
			people: []models.Person{
				person("a", "Alice", "20"),
				person("b", "Bob", "30"),
			},
			tipPercent:    10,
			expectedTotal: "50.02",
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				if !totals.Mismatch {
					t.Error("expected mismatch")
				}
				if math.Abs(totals.Difference-0.02) > 1e-9 {
					t.Errorf("difference = %v, want 0.02", totals.Difference)
				}
			},
		},
		{
			name: "expected total below subtotal keeps the sign",
			people: []models.Person{
				person("a", "Alice", "20"),
			},
			expectedTotal: "15",
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				if !totals.Mismatch {
					t.Error("expected mismatch")
				}
				if math.Abs(totals.Difference+5) > 1e-9 {
					t.Errorf("difference = %v, want -5", totals.Difference)
				}
			},
		},
		{
			name: "expected total equal to subtotal",
			people: []models.Person{
				person("a", "Alice", "12.50", "7.50"),
				person("b", "Bob", "30.00"),
			},
			tipPercent:    10,
			expectedTotal: "50",
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				if totals.Mismatch {
					t.Error("expected no mismatch")
				}
				if !totals.HasExpected {
					t.Error("expected total should be recorded")
				}
			},
		},
		{
			name: "within tolerance is not a mismatch",
			people: []models.Person{
				person("a", "Alice", "10"),
			},
			expectedTotal: "10.005",
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				if totals.Mismatch {
					t.Errorf("difference %v should be within tolerance", totals.Difference)
				}
			},
		},
		{
			name: "non-numeric expected total disables the check",
			people: []models.Person{
				person("a", "Alice", "10"),
			},
			expectedTotal: ".",
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				if totals.HasExpected || totals.Mismatch || totals.Difference != 0 {
					t.Errorf("got %+v, want no expected total", totals)
				}
			},
		},
		{
			name:       "tip rate above the slider range is clamped",
			people:     []models.Person{person("a", "Alice", "100")},
			tipPercent: 50,
			validateFunc: func(t *testing.T, totals ItemizedTotals) {
				if math.Abs(totals.TipAmount-30) > 1e-9 {
					t.Errorf("tip = %v, want 30", totals.TipAmount)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeItemized(tt.people, tt.tipPercent, tt.expectedTotal)
			if len(totals.People) != len(tt.people) {
				t.Fatalf("got %d splits, want %d", len(totals.People), len(tt.people))
			}
			tt.validateFunc(t, totals)
		})
	}
}

func TestComputeItemized_PersonTotalsSumToGrandTotal(t *testing.T) {
	rosters := [][]models.Person{
		{person("a", "A", "0.10", "0.20"), person("b", "B", "0.30")},
		{person("a", "A", "19.99"), person("b", "B", "7.01", "3.33"), person("c", "C")},
		{person("a", "A", "1234.56", "0.01", "99.99")},
	}

	for tip := MinTipPercent; tip <= MaxTipPercent; tip++ {
		for _, people := range rosters {
			totals := ComputeItemized(people, tip, "")

			var sum float64
			for _, split := range totals.People {
				sum += split.Total
			}
			if math.Abs(sum-totals.GrandTotal) > 1e-9 {
				t.Errorf("tip %d: Σ person totals = %v, grand total = %v", tip, sum, totals.GrandTotal)
			}
		}
	}
}

func TestComputeItemized_Idempotent(t *testing.T) {
	people := []models.Person{person("a", "A", "12.50", "7.50"), person("b", "B", "30")}

	first := ComputeItemized(people, 18, "49")
	second := ComputeItemized(people, 18, "49")

	if first.GrandTotal != second.GrandTotal || first.Difference != second.Difference {
		t.Errorf("recomputation differs: %+v vs %+v", first, second)
	}
	for i := range first.People {
		if first.People[i] != second.People[i] {
			t.Errorf("split %d differs: %+v vs %+v", i, first.People[i], second.People[i])
		}
	}
}
