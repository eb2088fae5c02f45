// Package pricing holds the service catalog and the quote calculator used by
// the booking funnel. Pricing is a lookup-and-sum over the catalog.
package pricing

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownTier        = errors.New("unknown property tier")
	ErrUnknownExtra       = errors.New("unknown extra")
	ErrUnknownBundle      = errors.New("unknown bundle")
	ErrUnknownFrequency   = errors.New("unknown frequency")
	ErrUnknownServiceType = errors.New("unknown service type")
	ErrInvalidCatalog     = errors.New("invalid catalog")
)

type Tier struct {
	Code      string  `yaml:"code" json:"code"`
	Label     string  `yaml:"label" json:"label"`
	Bedrooms  int     `yaml:"bedrooms" json:"bedrooms"`
	Bathrooms int     `yaml:"bathrooms" json:"bathrooms"`
	BasePrice float64 `yaml:"base_price" json:"base_price"`
	Hours     float64 `yaml:"hours" json:"hours"`
}

type Extra struct {
	Code  string  `yaml:"code" json:"code"`
	Label string  `yaml:"label" json:"label"`
	Price float64 `yaml:"price" json:"price"`
	Hours float64 `yaml:"hours" json:"hours"`
}

// Bundle takes a fixed amount off when all of its extras are selected.
type Bundle struct {
	Code     string   `yaml:"code" json:"code"`
	Label    string   `yaml:"label" json:"label"`
	Extras   []string `yaml:"extras" json:"extras"`
	Discount float64  `yaml:"discount" json:"discount"`
}

type Frequency struct {
	Code    string  `yaml:"code" json:"code"`
	Label   string  `yaml:"label" json:"label"`
	Percent float64 `yaml:"percent" json:"percent"`
}

// ServiceType scales the tier base price and hours.
type ServiceType struct {
	Code       string  `yaml:"code" json:"code"`
	Label      string  `yaml:"label" json:"label"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

type Catalog struct {
	Currency      string        `yaml:"currency" json:"currency"`
	DefaultBundle string        `yaml:"default_bundle" json:"default_bundle"`
	Tiers         []Tier        `yaml:"tiers" json:"tiers"`
	Extras        []Extra       `yaml:"extras" json:"extras"`
	Bundles       []Bundle      `yaml:"bundles" json:"bundles"`
	Frequencies   []Frequency   `yaml:"frequencies" json:"frequencies"`
	ServiceTypes  []ServiceType `yaml:"service_types" json:"service_types"`
}

// DefaultCatalog returns the price list published on the website.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Currency:      "GBP",
		DefaultBundle: "kitchen",
		Tiers: []Tier{
			{Code: "studio", Label: "Studio", Bedrooms: 0, Bathrooms: 1, BasePrice: 70, Hours: 2},
			{Code: "1-bed", Label: "1 Bedroom", Bedrooms: 1, Bathrooms: 1, BasePrice: 85, Hours: 2.5},
			{Code: "2-bed", Label: "2 Bedrooms", Bedrooms: 2, Bathrooms: 1, BasePrice: 105, Hours: 3},
			{Code: "3-bed", Label: "3 Bedrooms", Bedrooms: 3, Bathrooms: 2, BasePrice: 130, Hours: 4},
			{Code: "4-bed", Label: "4 Bedrooms", Bedrooms: 4, Bathrooms: 2, BasePrice: 160, Hours: 5},
			{Code: "5-bed", Label: "5+ Bedrooms", Bedrooms: 5, Bathrooms: 3, BasePrice: 195, Hours: 6},
		},
		Extras: []Extra{
			{Code: "oven", Label: "Oven cleaning", Price: 45, Hours: 1},
			{Code: "fridge", Label: "Inside fridge", Price: 25, Hours: 0.5},
			{Code: "inside-windows", Label: "Interior windows", Price: 30, Hours: 1},
			{Code: "inside-cabinets", Label: "Inside cabinets", Price: 25, Hours: 0.5},
			{Code: "carpet", Label: "Carpet cleaning", Price: 60, Hours: 1.5},
			{Code: "balcony", Label: "Balcony", Price: 20, Hours: 0.5},
			{Code: "laundry", Label: "Laundry & ironing", Price: 15, Hours: 0.5},
			{Code: "walls", Label: "Wall spot cleaning", Price: 35, Hours: 1},
		},
		Bundles: []Bundle{
			{Code: "kitchen", Label: "Kitchen refresh", Extras: []string{"oven", "fridge", "inside-cabinets"}, Discount: 15},
			{Code: "move-out", Label: "Move-out complete", Extras: []string{"oven", "fridge", "inside-windows", "inside-cabinets", "carpet"}, Discount: 35},
		},
		Frequencies: []Frequency{
			{Code: "one-off", Label: "One-off", Percent: 0},
			{Code: "monthly", Label: "Monthly", Percent: 5},
			{Code: "fortnightly", Label: "Fortnightly", Percent: 10},
			{Code: "weekly", Label: "Weekly", Percent: 15},
		},
		ServiceTypes: []ServiceType{
			{Code: "standard", Label: "Standard clean", Multiplier: 1},
			{Code: "deep", Label: "Deep clean", Multiplier: 1.5},
			{Code: "end-of-tenancy", Label: "End of tenancy", Multiplier: 1.8},
		},
	}
}

// LoadCatalog reads a YAML catalog. An empty path yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var cat Catalog
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks codes are unique, prices non-negative and bundles refer to
// known extras.
func (c *Catalog) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidCatalog)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: at least one tier is required", ErrInvalidCatalog)
	}

	seen := map[string]bool{}
	for _, t := range c.Tiers {
		if t.Code == "" || seen["tier:"+t.Code] {
			return fmt.Errorf("%w: duplicate or empty tier code %q", ErrInvalidCatalog, t.Code)
		}
		if t.BasePrice < 0 {
			return fmt.Errorf("%w: tier %s has a negative price", ErrInvalidCatalog, t.Code)
		}
		seen["tier:"+t.Code] = true
	}
	for _, e := range c.Extras {
		if e.Code == "" || seen["extra:"+e.Code] {
			return fmt.Errorf("%w: duplicate or empty extra code %q", ErrInvalidCatalog, e.Code)
		}
		if e.Price < 0 {
			return fmt.Errorf("%w: extra %s has a negative price", ErrInvalidCatalog, e.Code)
		}
		seen["extra:"+e.Code] = true
	}
	for _, b := range c.Bundles {
		if b.Code == "" || seen["bundle:"+b.Code] {
			return fmt.Errorf("%w: duplicate or empty bundle code %q", ErrInvalidCatalog, b.Code)
		}
		if b.Discount < 0 || len(b.Extras) == 0 {
			return fmt.Errorf("%w: bundle %s needs extras and a non-negative discount", ErrInvalidCatalog, b.Code)
		}
		for _, code := range b.Extras {
			if !seen["extra:"+code] {
				return fmt.Errorf("%w: bundle %s refers to unknown extra %s", ErrInvalidCatalog, b.Code, code)
			}
		}
		seen["bundle:"+b.Code] = true
	}
	if c.DefaultBundle != "" && !seen["bundle:"+c.DefaultBundle] {
		return fmt.Errorf("%w: default bundle %s is not defined", ErrInvalidCatalog, c.DefaultBundle)
	}
	for _, f := range c.Frequencies {
		if f.Code == "" || seen["freq:"+f.Code] {
			return fmt.Errorf("%w: duplicate or empty frequency code %q", ErrInvalidCatalog, f.Code)
		}
		if f.Percent < 0 || f.Percent > 100 {
			return fmt.Errorf("%w: frequency %s percent must be within [0,100]", ErrInvalidCatalog, f.Code)
		}
		seen["freq:"+f.Code] = true
	}
	for _, s := range c.ServiceTypes {
		if s.Code == "" || seen["svc:"+s.Code] {
			return fmt.Errorf("%w: duplicate or empty service type code %q", ErrInvalidCatalog, s.Code)
		}
		if s.Multiplier <= 0 {
			return fmt.Errorf("%w: service type %s needs a positive multiplier", ErrInvalidCatalog, s.Code)
		}
		seen["svc:"+s.Code] = true
	}
	return nil
}

func (c *Catalog) Tier(code string) (Tier, bool) {
	for _, t := range c.Tiers {
		if t.Code == code {
			return t, true
		}
	}
	return Tier{}, false
}

func (c *Catalog) Extra(code string) (Extra, bool) {
	for _, e := range c.Extras {
		if e.Code == code {
			return e, true
		}
	}
	return Extra{}, false
}

func (c *Catalog) Bundle(code string) (Bundle, bool) {
	for _, b := range c.Bundles {
		if b.Code == code {
			return b, true
		}
	}
	return Bundle{}, false
}

func (c *Catalog) Frequency(code string) (Frequency, bool) {
	for _, f := range c.Frequencies {
		if f.Code == code {
			return f, true
		}
	}
	return Frequency{}, false
}

func (c *Catalog) ServiceType(code string) (ServiceType, bool) {
	for _, s := range c.ServiceTypes {
		if s.Code == code {
			return s, true
		}
	}
	return ServiceType{}, false
}
