// Package renderer renders computed tax results and processed activity
// logs into markdown for console display.
package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mzawisa/fifotax"
)

// TaxMarkdown renders one section per calendar year: a table of
// per-symbol returns and a bold total row summing each column
// independently.
func TaxMarkdown(years []fifotax.YearReturn) string {
	var b strings.Builder
	for _, year := range years {
		fmt.Fprintf(&b, "# Tax return %d\n\n", year.Year)
		fmt.Fprintln(&b, "| Symbol | Dividend tax | Stock revenue | Stock cost | Stock income | Stock loss | Stock tax |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")

		for _, symbol := range slices.Sorted(maps.Keys(year.Symbols)) {
			ret := year.Symbols[symbol]
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				symbol,
				ret.DividendTax.SignedString(),
				ret.StockRevenue.SignedString(),
				ret.StockCost.SignedString(),
				ret.StockIncome.SignedString(),
				ret.StockLoss.SignedString(),
				ret.StockTax.SignedString(),
			)
		}
		fmt.Fprintf(&b, "| **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** |\n\n",
			"TAX RETURN",
			year.Total.DividendTax.SignedString(),
			year.Total.StockRevenue.SignedString(),
			year.Total.StockCost.SignedString(),
			year.Total.StockIncome.SignedString(),
			year.Total.StockLoss.SignedString(),
			year.Total.StockTax.SignedString(),
		)
	}
	return b.String()
}

// ActivityMarkdown renders the chronological activity log, one line per
// operation, with domestic and original amounts side by side.
func ActivityMarkdown(activities []fifotax.Activity) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Activity log\n\n")
	for _, activity := range activities {
		day := activity.Date()
		switch op := activity.Operation.(type) {
		case fifotax.Buy:
			fmt.Fprintf(&b, "- %s %s **Buy** quantity: %s price: %s commission: %s\n",
				day, activity.Symbol, op.Quantity, op.Price, op.Commission)
		case fifotax.Sell:
			fmt.Fprintf(&b, "- %s %s **Sell** quantity: %s price: %s commission: %s\n",
				day, activity.Symbol, op.Quantity, op.Price, op.Commission)
		case fifotax.Dividend:
			fmt.Fprintf(&b, "- %s %s **Dividend** value: %s withholding tax: %s\n",
				day, activity.Symbol, op.Value, op.WithholdingTax)
		}
	}
	fmt.Fprintln(&b)
	return b.String()
}
