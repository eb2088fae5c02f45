package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/pricing"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var quoteFlags struct {
	tier        string
	serviceType string
	extras      []string
	bundle      bool
	bundleCode  string
	frequency   string
	catalog     string
	asJSON      bool
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a selection against the catalog",
	Example: `  freshplus quote --tier 2-bed --extra oven --extra fridge --frequency weekly
  freshplus quote --tier 3-bed --service-type deep --bundle --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := pricing.DefaultCatalog()
		if quoteFlags.catalog != "" {
			loaded, err := pricing.LoadCatalog(quoteFlags.catalog)
			if err != nil {
				return err
			}
			cat = loaded
		}

		q, err := pricing.Calculate(cat, pricing.Selection{
			Tier:        quoteFlags.tier,
			ServiceType: quoteFlags.serviceType,
			Extras:      quoteFlags.extras,
			Frequency:   quoteFlags.frequency,
			Bundle:      quoteFlags.bundle || quoteFlags.bundleCode != "",
			BundleCode:  quoteFlags.bundleCode,
		})
		if err != nil {
			return err
		}

		if quoteFlags.asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(q)
		}
		return printQuote(cmd.OutOrStdout(), q)
	},
}

func printQuote(out io.Writer, q pricing.Quote) error {
	money := func(v float64) string { return utils.FormatCurrency(v, q.Currency) }

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, l := range q.Lines {
		fmt.Fprintf(w, "%s\t%s\t\n", l.Label, money(l.Amount))
	}
	fmt.Fprintf(w, "Subtotal\t%s\t\n", money(q.Subtotal))
	for _, b := range q.Bundles {
		fmt.Fprintf(w, "%s\t%s\t\n", b.Label, money(b.Amount))
	}
	if q.FrequencyDiscount > 0 {
		fmt.Fprintf(w, "%s discount\t-%s\t\n", q.Frequency, money(q.FrequencyDiscount))
	}
	fmt.Fprintf(w, "Total\t%s\t\n", money(q.Total))
	fmt.Fprintf(w, "Estimated hours\t%.1f\t\n", q.Hours)
	return w.Flush()
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteFlags.tier, "tier", "", "property tier code, e.g. 2-bed (required)")
	f.StringVar(&quoteFlags.serviceType, "service-type", "", "standard, deep or end-of-tenancy")
	f.StringArrayVar(&quoteFlags.extras, "extra", nil, "extra code, repeatable")
	f.BoolVar(&quoteFlags.bundle, "bundle", false, "apply the default bundle")
	f.StringVar(&quoteFlags.bundleCode, "bundle-code", "", "apply a specific bundle")
	f.StringVar(&quoteFlags.frequency, "frequency", "", "one-off, monthly, fortnightly or weekly")
	f.StringVar(&quoteFlags.catalog, "catalog", "", "YAML catalog file instead of the built-in one")
	f.BoolVar(&quoteFlags.asJSON, "json", false, "print the quote as JSON")
	_ = quoteCmd.MarkFlagRequired("tier")
}
