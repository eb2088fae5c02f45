package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTwoBedWithKitchenBundleWeekly(t *testing.T) {
	cat := DefaultCatalog()

	got, err := Calculate(cat, Selection{
		Tier:      "2-bed",
		Extras:    []string{"balcony"},
		Bundle:    true,
		Frequency: "weekly",
	})
	require.NoError(t, err)

	want := Quote{
		Currency:  "GBP",
		Tier:      "2-bed",
		Frequency: "weekly",
		Extras:    []string{"oven", "fridge", "inside-cabinets", "balcony"},
		Lines: []Line{
			{Code: "2-bed", Label: "2 Bedrooms - Standard clean", Amount: 105},
			{Code: "oven", Label: "Oven cleaning", Amount: 45},
			{Code: "fridge", Label: "Inside fridge", Amount: 25},
			{Code: "inside-cabinets", Label: "Inside cabinets", Amount: 25},
			{Code: "balcony", Label: "Balcony", Amount: 20},
		},
		Subtotal:          220,
		Bundles:           []Line{{Code: "kitchen", Label: "Kitchen refresh", Amount: -15}},
		BundleDiscount:    15,
		FrequencyDiscount: 30.75,
		Discount:          45.75,
		Total:             174.25,
		Hours:             5.5,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateMoveOutBundleDoesNotStackWithKitchen(t *testing.T) {
	q, err := Calculate(DefaultCatalog(), Selection{
		Tier:        "1-bed",
		ServiceType: "end-of-tenancy",
		Extras:      []string{"oven", "fridge", "inside-windows", "inside-cabinets", "carpet"},
	})
	require.NoError(t, err)

	require.Len(t, q.Bundles, 1)
	assert.Equal(t, "move-out", q.Bundles[0].Code)
	assert.Equal(t, 35.0, q.BundleDiscount)
	// 85 × 1.8 = 153, plus 185 of extras
	assert.Equal(t, 338.0, q.Subtotal)
	assert.Equal(t, 303.0, q.Total)
}

func TestCalculateIgnoresDuplicateExtrasAndInputOrder(t *testing.T) {
	cat := DefaultCatalog()

	a, err := Calculate(cat, Selection{Tier: "studio", Extras: []string{"walls", "oven", "walls"}})
	require.NoError(t, err)
	b, err := Calculate(cat, Selection{Tier: "studio", Extras: []string{"oven", "walls"}})
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("quotes differ (-a +b):\n%s", diff)
	}
	assert.Equal(t, 150.0, a.Total)
}

func TestCalculateRejectsUnknownCodes(t *testing.T) {
	cat := DefaultCatalog()

	tests := []struct {
		name string
		sel  Selection
		want error
	}{
		{"tier", Selection{Tier: "castle"}, ErrUnknownTier},
		{"extra", Selection{Tier: "studio", Extras: []string{"pool"}}, ErrUnknownExtra},
		{"frequency", Selection{Tier: "studio", Frequency: "daily"}, ErrUnknownFrequency},
		{"service type", Selection{Tier: "studio", ServiceType: "spa"}, ErrUnknownServiceType},
		{"bundle", Selection{Tier: "studio", BundleCode: "garden"}, ErrUnknownBundle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(cat, tt.sel)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

// TestCalculateAllCombinations walks every tier, extras subset, bundle flag,
// frequency and service type and compares against a plain lookup-and-sum.
func TestCalculateAllCombinations(t *testing.T) {
	cat := DefaultCatalog()
	kitchen, _ := cat.Bundle("kitchen")
	moveOut, _ := cat.Bundle("move-out")

	covers := func(sel map[string]bool, b Bundle) bool {
		for _, e := range b.Extras {
			if !sel[e] {
				return false
			}
		}
		return true
	}

	n := len(cat.Extras)
	checked := 0
	for _, tier := range cat.Tiers {
		for _, svc := range cat.ServiceTypes {
			for _, freq := range cat.Frequencies {
				for mask := 0; mask < 1<<n; mask++ {
					for _, bundle := range []bool{false, true} {
						var extras []string
						selected := map[string]bool{}
						for i, e := range cat.Extras {
							if mask&(1<<i) != 0 {
								extras = append(extras, e.Code)
								selected[e.Code] = true
							}
						}
						if bundle {
							for _, e := range kitchen.Extras {
								selected[e] = true
							}
						}

						subtotal := round(tier.BasePrice * svc.Multiplier)
						for _, e := range cat.Extras {
							if selected[e.Code] {
								subtotal += e.Price
							}
						}

						discount := 0.0
						if covers(selected, moveOut) {
							discount = moveOut.Discount
						} else if covers(selected, kitchen) {
							discount = kitchen.Discount
						}
						remaining := subtotal - discount
						want := round(remaining - round(remaining*freq.Percent/100))

						q, err := Calculate(cat, Selection{
							Tier:        tier.Code,
							ServiceType: svc.Code,
							Frequency:   freq.Code,
							Extras:      extras,
							Bundle:      bundle,
						})
						require.NoError(t, err)
						if math.Abs(q.Total-want) > 0.001 {
							t.Fatalf("tier=%s svc=%s freq=%s extras=%v bundle=%v: total %.2f, want %.2f",
								tier.Code, svc.Code, freq.Code, extras, bundle, q.Total, want)
						}
						assert.InDelta(t, q.Subtotal-q.Discount, q.Total, 0.001)
						checked++
					}
				}
			}
		}
	}
	assert.Equal(t, len(cat.Tiers)*len(cat.ServiceTypes)*len(cat.Frequencies)*(1<<n)*2, checked)
}
