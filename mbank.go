package fifotax

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// mbankTimestamp is the trade-time format of an mBank export.
const mbankTimestamp = "02.01.2006 15:04:05"

// ImportMBank parses an mBank brokerage transaction export (semicolon
// separated, Polish headers, comma decimal separators) and converts
// each trade into an activity with money resolved through r.
func ImportMBank(reader io.Reader, r *Resolver) ([]Activity, error) {
	cr := csv.NewReader(reader)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read mBank CSV header: %w", err)
	}
	columns := indexColumns(header)

	var activities []Activity
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read mBank CSV line %d: %w", line, err)
		}

		activity, err := mbankActivity(columns, record, r)
		if err != nil {
			return nil, fmt.Errorf("mBank CSV line %d: %w", line, err)
		}
		activities = append(activities, activity)
	}
	SortActivities(activities)
	return activities, nil
}

func mbankActivity(columns map[string]int, record []string, r *Resolver) (Activity, error) {
	field := func(name string) (string, error) {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return "", fmt.Errorf("missing column %q", name)
		}
		return strings.TrimSpace(record[i]), nil
	}

	symbolField, err := field("Walor")
	if err != nil {
		return Activity{}, err
	}
	// the Walor column appends the listing name, the symbol is the first token
	symbol, _, _ := strings.Cut(symbolField, " ")
	if symbol == "" {
		return Activity{}, fmt.Errorf("cannot parse symbol from %q", symbolField)
	}

	side, err := field("K/S")
	if err != nil {
		return Activity{}, err
	}

	when, err := field("Czas transakcji")
	if err != nil {
		return Activity{}, err
	}
	timestamp, err := time.Parse(mbankTimestamp, when)
	if err != nil {
		return Activity{}, fmt.Errorf("cannot parse trade time %q: %w", when, err)
	}

	quantity, err := mbankDecimal(field, "Liczba")
	if err != nil {
		return Activity{}, err
	}
	priceValue, err := mbankDecimal(field, "Kurs")
	if err != nil {
		return Activity{}, err
	}
	commissionValue, err := mbankDecimal(field, "Prowizja")
	if err != nil {
		return Activity{}, err
	}

	priceCode, err := mbankCode(field, "Waluta")
	if err != nil {
		return Activity{}, err
	}
	commissionCode, err := mbankCode(field, "Waluta rozliczenia")
	if err != nil {
		return Activity{}, err
	}

	activity := Activity{Symbol: symbol, Timestamp: timestamp}
	price, err := NewMoney(A(priceValue.Round(2), priceCode), activity.Date(), r)
	if err != nil {
		return Activity{}, err
	}
	commission, err := NewMoney(A(commissionValue.Round(2), commissionCode), activity.Date(), r)
	if err != nil {
		return Activity{}, err
	}

	switch side {
	case "K": // kupno
		activity.Operation = Buy{Quantity: Q(quantity), Price: price, Commission: commission}
	case "S": // sprzedaż
		activity.Operation = Sell{Quantity: Q(quantity), Price: price, Commission: commission}
	default:
		return Activity{}, fmt.Errorf("unknown K/S value %q", side)
	}
	return activity, nil
}

// mbankDecimal parses a Polish-formatted number ("1 234,56").
func mbankDecimal(field func(string) (string, error), name string) (decimal.Decimal, error) {
	s, err := field(name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse %q value %q: %w", name, s, err)
	}
	return value, nil
}

func mbankCode(field func(string) (string, error), name string) (Code, error) {
	s, err := field(name)
	if err != nil {
		return "", err
	}
	return ParseCode(s)
}

// indexColumns maps header names to their positions.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}
