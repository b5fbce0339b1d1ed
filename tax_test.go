package fifotax

import (
	"testing"

	"github.com/mzawisa/fifotax/date"
)

func TestCompute_DividendCredit(t *testing.T) {
	// 19% of 100 is 19; the 15 withheld at source is credited.
	years, err := Compute([]Activity{
		dividend("AAPL", "2020-05-10 00:00:00", plnMoney(100), plnMoney(15)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(years) != 1 {
		t.Fatalf("years = %d, want 1", len(years))
	}
	got := years[0].Symbols["AAPL"]
	if !got.DividendTax.Equal(pln(4)) {
		t.Errorf("DividendTax = %v, want 4 PLN", got.DividendTax)
	}
}

func TestCompute_WithholdingExceedsTax(t *testing.T) {
	// withholding above 19% is a valid negative credit, not an error.
	years, err := Compute([]Activity{
		dividend("AAPL", "2020-05-10 00:00:00", plnMoney(100), plnMoney(30)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	got := years[0].Symbols["AAPL"]
	if !got.DividendTax.Equal(pln(-11)) {
		t.Errorf("DividendTax = %v, want -11 PLN", got.DividendTax)
	}
}

func TestCompute_RealizedGain(t *testing.T) {
	source := &fakeSource{rates: map[string]RateRecord{
		"USD 2020-01-01": record(4, "2020-01-01", "001/A/NBP/2020"),
		"USD 2020-06-30": record(4, "2020-06-30", "125/A/NBP/2020"),
	}}
	resolver := NewResolver(source, nil)
	price := must(NewMoney(usd(20), date.MustParse("2020-01-02"), resolver))
	if !price.Domestic.Equal(pln(80)) {
		t.Fatalf("buy price domestic = %v, want 80 PLN", price.Domestic)
	}
	sellPrice := must(NewMoney(usd(25), date.MustParse("2020-07-01"), resolver))

	years, err := Compute([]Activity{
		buy("AAPL", "2020-01-02 10:00:00", 10, price, plnMoney(0)),
		sell("AAPL", "2020-07-01 10:00:00", 10, sellPrice, plnMoney(0)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	got := years[0].Symbols["AAPL"]
	if !got.StockRevenue.Equal(pln(1000)) {
		t.Errorf("StockRevenue = %v, want 1000 PLN", got.StockRevenue)
	}
	if !got.StockCost.Equal(pln(800)) {
		t.Errorf("StockCost = %v, want 800 PLN", got.StockCost)
	}
	if !got.StockIncome.Equal(pln(200)) {
		t.Errorf("StockIncome = %v, want 200 PLN", got.StockIncome)
	}
	if !got.StockLoss.IsZero() {
		t.Errorf("StockLoss = %v, want zero", got.StockLoss)
	}
	if !got.StockTax.Equal(pln(38)) {
		t.Errorf("StockTax = %v, want 19%% of 200 = 38 PLN", got.StockTax)
	}
}

func TestCompute_LossSplitsBySign(t *testing.T) {
	years, err := Compute([]Activity{
		buy("AAPL", "2020-01-02 10:00:00", 10, plnMoney(100), plnMoney(0)),
		sell("AAPL", "2020-02-03 10:00:00", 10, plnMoney(90), plnMoney(0)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	got := years[0].Symbols["AAPL"]
	if !got.StockIncome.IsZero() {
		t.Errorf("StockIncome = %v, want zero", got.StockIncome)
	}
	if !got.StockLoss.Equal(pln(100)) {
		t.Errorf("StockLoss = %v, want 100 PLN", got.StockLoss)
	}
	if !got.StockTax.IsZero() {
		t.Errorf("StockTax = %v, want zero on a loss", got.StockTax)
	}
}

func TestCompute_LedgerSpansYears(t *testing.T) {
	// lots bought in 2019 are consumed by a 2020 sale; only the yearly
	// accumulators are fresh per year.
	years, err := Compute([]Activity{
		buy("AAPL", "2019-03-01 10:00:00", 10, plnMoney(50), plnMoney(0)),
		sell("AAPL", "2020-03-01 10:00:00", 10, plnMoney(70), plnMoney(0)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(years) != 2 {
		t.Fatalf("years = %d, want 2", len(years))
	}
	if years[0].Year != 2019 || years[1].Year != 2020 {
		t.Fatalf("years = %d, %d; want 2019, 2020", years[0].Year, years[1].Year)
	}
	if got := years[0].Symbols["AAPL"]; !got.StockRevenue.IsZero() {
		t.Errorf("2019 StockRevenue = %v, want zero (buys have no tax effect)", got.StockRevenue)
	}
	got := years[1].Symbols["AAPL"]
	if !got.StockIncome.Equal(pln(200)) {
		t.Errorf("2020 StockIncome = %v, want 200 PLN", got.StockIncome)
	}
}

func TestCompute_YearsPartitionedByActivityTimestamp(t *testing.T) {
	years, err := Compute([]Activity{
		dividend("AAPL", "2019-12-31 23:00:00", plnMoney(100), plnMoney(0)),
		dividend("AAPL", "2020-01-01 01:00:00", plnMoney(100), plnMoney(0)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(years) != 2 {
		t.Fatalf("years = %d, want 2", len(years))
	}
	for _, year := range years {
		if got := year.Symbols["AAPL"]; !got.DividendTax.Equal(pln(19)) {
			t.Errorf("%d DividendTax = %v, want 19 PLN", year.Year, got.DividendTax)
		}
	}
}

func TestCompute_TotalIsFieldWiseSum(t *testing.T) {
	// The aggregate must sum already-taxed per-symbol values, not apply
	// the tax formula again to the summed figures.
	years, err := Compute([]Activity{
		dividend("AAPL", "2020-05-10 00:00:00", plnMoney(100), plnMoney(15)),
		dividend("MSFT", "2020-06-10 00:00:00", plnMoney(200), plnMoney(10)),
		buy("AAPL", "2020-01-02 10:00:00", 10, plnMoney(100), plnMoney(0)),
		sell("AAPL", "2020-07-01 10:00:00", 10, plnMoney(120), plnMoney(0)),
		buy("MSFT", "2020-01-02 10:00:00", 10, plnMoney(100), plnMoney(0)),
		sell("MSFT", "2020-07-01 10:00:00", 10, plnMoney(80), plnMoney(0)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	year := years[0]

	var want TaxReturn
	for _, ret := range year.Symbols {
		want = want.Add(ret)
	}
	if !taxReturnsEqual(year.Total, want) {
		t.Errorf("Total = %+v, want the field-wise sum %+v", year.Total, want)
	}

	// dividend tax: (19-15) + (38-10); income and loss both present.
	if !year.Total.DividendTax.Equal(pln(32)) {
		t.Errorf("Total.DividendTax = %v, want 32 PLN", year.Total.DividendTax)
	}
	if !year.Total.StockIncome.Equal(pln(200)) {
		t.Errorf("Total.StockIncome = %v, want 200 PLN", year.Total.StockIncome)
	}
	if !year.Total.StockLoss.Equal(pln(200)) {
		t.Errorf("Total.StockLoss = %v, want 200 PLN", year.Total.StockLoss)
	}
	if !year.Total.StockTax.Equal(pln(38)) {
		t.Errorf("Total.StockTax = %v, want 38 PLN", year.Total.StockTax)
	}
}

func taxReturnsEqual(a, b TaxReturn) bool {
	return a.DividendTax.Equal(b.DividendTax) &&
		a.StockRevenue.Equal(b.StockRevenue) &&
		a.StockCost.Equal(b.StockCost) &&
		a.StockIncome.Equal(b.StockIncome) &&
		a.StockLoss.Equal(b.StockLoss) &&
		a.StockTax.Equal(b.StockTax)
}

func TestCompute_UnderflowAborts(t *testing.T) {
	_, err := Compute([]Activity{
		sell("AAPL", "2020-07-01 10:00:00", 10, plnMoney(120), plnMoney(0)),
	})
	if err == nil {
		t.Fatal("Compute() expected an underflow error for a sell without buys")
	}
}

func TestCompute_RejectsUnconvertedMoney(t *testing.T) {
	unresolved := Money{Original: usd(20)}
	_, err := Compute([]Activity{
		buy("AAPL", "2020-01-02 10:00:00", 10, unresolved, plnMoney(0)),
	})
	if err == nil {
		t.Fatal("Compute() expected an error for money never converted to PLN")
	}
}

func TestCompute_SortsBeforeReplay(t *testing.T) {
	// the sale is listed first but happens after the buy.
	years, err := Compute([]Activity{
		sell("AAPL", "2020-02-03 10:00:00", 10, plnMoney(90), plnMoney(0)),
		buy("AAPL", "2020-01-02 10:00:00", 10, plnMoney(100), plnMoney(0)),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := years[0].Symbols["AAPL"]; !got.StockLoss.Equal(pln(100)) {
		t.Errorf("StockLoss = %v, want 100 PLN", got.StockLoss)
	}
}
