package pricing

import (
	"fmt"
	"math"
	"sort"
)

// Selection is what a customer picks in the quote form.
type Selection struct {
	Tier        string   `json:"tier"`
	ServiceType string   `json:"service_type,omitempty"`
	Extras      []string `json:"extras,omitempty"`
	Frequency   string   `json:"frequency,omitempty"`
	// Bundle adds the catalog's default bundle (or BundleCode) to the
	// selection.
	Bundle     bool   `json:"bundle,omitempty"`
	BundleCode string `json:"bundle_code,omitempty"`
}

type Line struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type Quote struct {
	Currency          string   `json:"currency"`
	Tier              string   `json:"tier"`
	ServiceType       string   `json:"service_type"`
	Frequency         string   `json:"frequency"`
	Extras            []string `json:"extras"`
	Lines             []Line   `json:"lines"`
	Subtotal          float64  `json:"subtotal"`
	Bundles           []Line   `json:"bundles"`
	BundleDiscount    float64  `json:"bundle_discount"`
	FrequencyDiscount float64  `json:"frequency_discount"`
	Discount          float64  `json:"discount"`
	Total             float64  `json:"total"`
	Hours             float64  `json:"estimated_hours"`
}

// Calculate prices a selection:
//
//	base(tier) × service multiplier + Σ extras
//	− fixed bundle discounts (largest first, bundles may not share extras)
//	− frequency percent of what remains
//
// Amounts are rounded to cents and the total never goes below zero.
func Calculate(cat *Catalog, sel Selection) (Quote, error) {
	tier, ok := cat.Tier(sel.Tier)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownTier, sel.Tier)
	}

	multiplier := 1.0
	serviceLabel := "Standard clean"
	if sel.ServiceType != "" {
		svc, ok := cat.ServiceType(sel.ServiceType)
		if !ok {
			return Quote{}, fmt.Errorf("%w: %q", ErrUnknownServiceType, sel.ServiceType)
		}
		multiplier = svc.Multiplier
		serviceLabel = svc.Label
	}

	percent := 0.0
	if sel.Frequency != "" {
		freq, ok := cat.Frequency(sel.Frequency)
		if !ok {
			return Quote{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, sel.Frequency)
		}
		percent = freq.Percent
	}

	selected := map[string]bool{}
	for _, code := range sel.Extras {
		if _, ok := cat.Extra(code); !ok {
			return Quote{}, fmt.Errorf("%w: %q", ErrUnknownExtra, code)
		}
		selected[code] = true
	}

	if sel.Bundle || sel.BundleCode != "" {
		code := sel.BundleCode
		if code == "" {
			code = cat.DefaultBundle
		}
		b, ok := cat.Bundle(code)
		if !ok {
			return Quote{}, fmt.Errorf("%w: %q", ErrUnknownBundle, code)
		}
		for _, e := range b.Extras {
			selected[e] = true
		}
	}

	q := Quote{
		Currency:    cat.Currency,
		Tier:        tier.Code,
		ServiceType: sel.ServiceType,
		Frequency:   sel.Frequency,
		Extras:      []string{},
		Bundles:     []Line{},
	}

	base := round(tier.BasePrice * multiplier)
	q.Lines = append(q.Lines, Line{Code: tier.Code, Label: tier.Label + " - " + serviceLabel, Amount: base})
	q.Subtotal = base
	q.Hours = tier.Hours * multiplier

	// catalog order keeps the breakdown stable regardless of input order
	for _, e := range cat.Extras {
		if !selected[e.Code] {
			continue
		}
		q.Extras = append(q.Extras, e.Code)
		q.Lines = append(q.Lines, Line{Code: e.Code, Label: e.Label, Amount: round(e.Price)})
		q.Subtotal += round(e.Price)
		q.Hours += e.Hours
	}
	q.Subtotal = round(q.Subtotal)

	for _, b := range applicableBundles(cat, selected) {
		q.Bundles = append(q.Bundles, Line{Code: b.Code, Label: b.Label, Amount: -round(b.Discount)})
		q.BundleDiscount += round(b.Discount)
	}
	q.BundleDiscount = round(math.Min(q.BundleDiscount, q.Subtotal))

	remaining := q.Subtotal - q.BundleDiscount
	q.FrequencyDiscount = round(remaining * percent / 100)
	q.Discount = round(q.BundleDiscount + q.FrequencyDiscount)
	q.Total = round(math.Max(remaining-q.FrequencyDiscount, 0))
	q.Hours = math.Round(q.Hours*4) / 4

	return q, nil
}

// applicableBundles picks fully-covered bundles, largest discount first,
// without letting two bundles claim the same extra.
func applicableBundles(cat *Catalog, selected map[string]bool) []Bundle {
	bundles := make([]Bundle, len(cat.Bundles))
	copy(bundles, cat.Bundles)
	sort.SliceStable(bundles, func(i, j int) bool {
		return bundles[i].Discount > bundles[j].Discount
	})

	used := map[string]bool{}
	var out []Bundle
	for _, b := range bundles {
		covered := true
		for _, e := range b.Extras {
			if !selected[e] || used[e] {
				covered = false
				break
			}
		}
		if !covered {
			continue
		}
		for _, e := range b.Extras {
			used[e] = true
		}
		out = append(out, b)
	}
	return out
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
