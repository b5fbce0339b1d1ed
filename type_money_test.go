package fifotax

import (
	"encoding/json"
	"testing"

	"github.com/mzawisa/fifotax/date"
)

func TestNewMoney_Domestic(t *testing.T) {
	m, err := NewMoney(pln(23), date.MustParse("2020-01-02"), nil)
	if err != nil {
		t.Fatalf("NewMoney() error = %v", err)
	}
	if !m.Domestic.Equal(m.Original) {
		t.Errorf("Domestic = %v, want the original %v", m.Domestic, m.Original)
	}
	if m.Rate != nil {
		t.Errorf("Rate = %v, want nil for a domestic amount", m.Rate)
	}
}

func TestNewMoney_Foreign(t *testing.T) {
	source := &fakeSource{rates: map[string]RateRecord{
		"USD 2019-12-31": record(3.7977, "2019-12-31", "251/A/NBP/2019"),
	}}
	resolver := NewResolver(source, nil)

	m, err := NewMoney(usd(20), date.MustParse("2020-01-02"), resolver)
	if err != nil {
		t.Fatalf("NewMoney() error = %v", err)
	}
	if !m.Domestic.Equal(pln(75.95)) {
		t.Errorf("Domestic = %v, want 75.95 PLN", m.Domestic)
	}
	if m.Rate == nil || m.Rate.ID != "251/A/NBP/2019" {
		t.Errorf("Rate = %v, want the 2019-12-31 quotation", m.Rate)
	}
}

func TestNewMoney_ResolverFailurePropagates(t *testing.T) {
	resolver := NewResolver(&fakeSource{}, nil)
	if _, err := NewMoney(usd(20), date.MustParse("2020-01-02"), resolver); err == nil {
		t.Fatal("NewMoney() expected an error when no quotation exists")
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	source := &fakeSource{rates: map[string]RateRecord{
		"USD 2019-12-31": record(3.7977, "2019-12-31", "251/A/NBP/2019"),
	}}
	resolver := NewResolver(source, nil)

	testCases := []struct {
		name string
		in   Money
	}{
		{name: "domestic", in: plnMoney(23)},
		{name: "foreign", in: must(NewMoney(usd(20), date.MustParse("2020-01-02"), resolver))},
	}
	for _, tc := range testCases {
		b, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("%s: Marshal() error = %v", tc.name, err)
		}
		var out Money
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("%s: Unmarshal() error = %v", tc.name, err)
		}
		if !out.Domestic.Equal(tc.in.Domestic) {
			t.Errorf("%s: round trip domestic = %v, want %v", tc.name, out.Domestic, tc.in.Domestic)
		}
		if !out.Original.Equal(tc.in.Original) {
			t.Errorf("%s: round trip original = %v, want %v", tc.name, out.Original, tc.in.Original)
		}
		if (out.Rate == nil) != (tc.in.Rate == nil) {
			t.Errorf("%s: round trip rate = %v, want %v", tc.name, out.Rate, tc.in.Rate)
		}
	}
}

func TestMoney_WireFormat(t *testing.T) {
	b, err := json.Marshal(plnMoney(23))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"original":"23 PLN","domestic":23,"rate":null}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestMoney_UnmarshalRejectsMissingOriginal(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`{"domestic":10,"rate":null}`), &m); err == nil {
		t.Fatal("Unmarshal() expected an error for a money value without an original amount")
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
