package fifotax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// taxRate is the flat Polish rate applied to dividends and to realized
// stock income.
var taxRate = decimal.New(19, -2)

// tax returns 19% of an amount, rounded to 2 decimal places.
func tax(a Amount) Amount {
	return Amount{value: a.value.Mul(taxRate).Round(2), code: a.code}
}

// TaxPosition accumulates one symbol's taxable flows within one
// calendar year.
type TaxPosition struct {
	Dividend               Amount
	DividendWithholdingTax Amount
	StockRevenue           Amount
	StockCost              Amount
}

// TaxReturn holds the yearly tax figures for one symbol, or the
// field-wise sum across symbols.
type TaxReturn struct {
	DividendTax  Amount
	StockRevenue Amount
	StockCost    Amount
	StockIncome  Amount
	StockLoss    Amount
	StockTax     Amount
}

// Add returns the field-wise sum of two returns. The cross-symbol total
// is a sum of already-taxed per-symbol values, never a recomputation
// from summed revenue and cost.
func (t TaxReturn) Add(o TaxReturn) TaxReturn {
	return TaxReturn{
		DividendTax:  t.DividendTax.Add(o.DividendTax),
		StockRevenue: t.StockRevenue.Add(o.StockRevenue),
		StockCost:    t.StockCost.Add(o.StockCost),
		StockIncome:  t.StockIncome.Add(o.StockIncome),
		StockLoss:    t.StockLoss.Add(o.StockLoss),
		StockTax:     t.StockTax.Add(o.StockTax),
	}
}

// taxReturn derives the year-end return from an accumulated position.
//
// Foreign withholding tax is credited against the 19% domestic dividend
// tax; the result may be a valid negative credit. Exactly one of income
// and loss is nonzero.
func (p TaxPosition) taxReturn() TaxReturn {
	dividendTax := tax(p.Dividend).Sub(p.DividendWithholdingTax)
	value := p.StockRevenue.Sub(p.StockCost)
	var income, loss Amount
	if value.IsPositive() {
		income = value
	} else {
		loss = value.Abs()
	}
	return TaxReturn{
		DividendTax:  dividendTax,
		StockRevenue: p.StockRevenue,
		StockCost:    p.StockCost,
		StockIncome:  income,
		StockLoss:    loss,
		StockTax:     tax(income),
	}
}

// YearReturn groups the per-symbol returns of one calendar year with
// their field-wise total.
type YearReturn struct {
	Year    int
	Symbols map[string]TaxReturn
	Total   TaxReturn
}

// Compute replays the activity log through a fresh lot ledger and
// returns one YearReturn per calendar year, in chronological order.
//
// Activities are partitioned by the year of their own timestamp, but the
// ledger is never reset between years: lots bought in one year are
// consumed by sales in later ones. Any resolver gap or ledger underflow
// aborts the whole computation; there is no partial output.
func Compute(activities []Activity) ([]YearReturn, error) {
	sorted := make([]Activity, len(activities))
	copy(sorted, activities)
	SortActivities(sorted)

	ledger := NewLedger()
	var years []YearReturn
	positions := make(map[string]*TaxPosition)
	currentYear := 0

	closeYear := func() {
		if currentYear == 0 {
			return
		}
		year := YearReturn{Year: currentYear, Symbols: make(map[string]TaxReturn, len(positions))}
		for symbol, position := range positions {
			ret := position.taxReturn()
			year.Symbols[symbol] = ret
			year.Total = year.Total.Add(ret)
		}
		years = append(years, year)
		positions = make(map[string]*TaxPosition)
	}

	position := func(symbol string) *TaxPosition {
		p, ok := positions[symbol]
		if !ok {
			p = &TaxPosition{}
			positions[symbol] = p
		}
		return p
	}

	for _, activity := range sorted {
		if year := activity.Timestamp.Year(); year != currentYear {
			closeYear()
			currentYear = year
		}

		switch op := activity.Operation.(type) {
		case Buy:
			if err := requireDomestic(activity, op.Price, op.Commission); err != nil {
				return nil, err
			}
			ledger.Buy(activity.Symbol, activity.Timestamp, op.Quantity, op.Price.Domestic, op.Commission.Domestic)
		case Sell:
			if err := requireDomestic(activity, op.Price, op.Commission); err != nil {
				return nil, err
			}
			revenue, cost, err := ledger.Sell(activity.Symbol, op.Quantity, op.Price.Domestic, op.Commission.Domestic)
			if err != nil {
				return nil, err
			}
			p := position(activity.Symbol)
			p.StockRevenue = p.StockRevenue.Add(revenue)
			p.StockCost = p.StockCost.Add(cost)
		case Dividend:
			if err := requireDomestic(activity, op.Value, op.WithholdingTax); err != nil {
				return nil, err
			}
			p := position(activity.Symbol)
			p.Dividend = p.Dividend.Add(op.Value.Domestic)
			p.DividendWithholdingTax = p.DividendWithholdingTax.Add(op.WithholdingTax.Domestic)
		default:
			return nil, fmt.Errorf("unknown activity operation: %T", activity.Operation)
		}
	}
	closeYear()

	return years, nil
}

// requireDomestic rejects activities whose money was never converted.
func requireDomestic(a Activity, values ...Money) error {
	for _, m := range values {
		if !m.resolved() {
			return fmt.Errorf("activity %s %q on %s: %s not converted to %s",
				a.Operation.What(), a.Symbol, a.Date(), m.Original, Domestic)
		}
	}
	return nil
}
