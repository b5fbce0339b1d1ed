package fifotax

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ibkrTimestamp is the trade-time format of an IBKR activity statement.
const ibkrTimestamp = "2006-01-02, 15:04:05"

// An IBKR activity statement is a bundle of many CSV sections sharing
// one file; only the stock order rows of the Trades section matter here.
const (
	ibkrTradesHeader = "Trades,Header,DataDiscriminator,Asset Category,Currency,Symbol,Date/Time,Quantity,T. Price,C. Price,Proceeds,Comm/Fee,Basis,Realized P/L,MTM P/L,Code"
	ibkrTradesPrefix = "Trades,Data,Order,Stocks"
)

// ImportIBKR parses an Interactive Brokers activity statement and
// converts each stock trade into an activity with money resolved
// through r. A negative quantity is a sale.
func ImportIBKR(reader io.Reader, r *Resolver) ([]Activity, error) {
	var section strings.Builder
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ibkrTradesHeader) || strings.HasPrefix(line, ibkrTradesPrefix) {
			section.WriteString(line)
			section.WriteString("\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read IBKR statement: %w", err)
	}
	if section.Len() == 0 {
		return nil, fmt.Errorf("no stock trades section found in IBKR statement")
	}

	cr := csv.NewReader(strings.NewReader(section.String()))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read IBKR trades header: %w", err)
	}
	columns := indexColumns(header)

	var activities []Activity
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read IBKR trade row: %w", err)
		}
		activity, err := ibkrActivity(columns, record, r)
		if err != nil {
			return nil, fmt.Errorf("IBKR trade row %v: %w", record, err)
		}
		activities = append(activities, activity)
	}
	SortActivities(activities)
	return activities, nil
}

func ibkrActivity(columns map[string]int, record []string, r *Resolver) (Activity, error) {
	field := func(name string) (string, error) {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return "", fmt.Errorf("missing column %q", name)
		}
		return strings.TrimSpace(record[i]), nil
	}

	symbol, err := field("Symbol")
	if err != nil {
		return Activity{}, err
	}

	when, err := field("Date/Time")
	if err != nil {
		return Activity{}, err
	}
	timestamp, err := time.Parse(ibkrTimestamp, when)
	if err != nil {
		return Activity{}, fmt.Errorf("cannot parse trade time %q: %w", when, err)
	}

	quantity, err := ibkrDecimal(field, "Quantity")
	if err != nil {
		return Activity{}, err
	}
	priceValue, err := ibkrDecimal(field, "T. Price")
	if err != nil {
		return Activity{}, err
	}
	commissionValue, err := ibkrDecimal(field, "Comm/Fee")
	if err != nil {
		return Activity{}, err
	}

	currency, err := field("Currency")
	if err != nil {
		return Activity{}, err
	}
	tradeCode, err := ParseCode(currency)
	if err != nil {
		return Activity{}, err
	}

	activity := Activity{Symbol: symbol, Timestamp: timestamp}
	price, err := NewMoney(A(priceValue, tradeCode), activity.Date(), r)
	if err != nil {
		return Activity{}, err
	}
	// IBKR reports commission as a negative cash flow; the ledger wants
	// a positive cost.
	commission, err := NewMoney(A(commissionValue.Abs(), tradeCode), activity.Date(), r)
	if err != nil {
		return Activity{}, err
	}

	if quantity.IsNegative() {
		activity.Operation = Sell{Quantity: Q(quantity.Neg()), Price: price, Commission: commission}
	} else {
		activity.Operation = Buy{Quantity: Q(quantity), Price: price, Commission: commission}
	}
	return activity, nil
}

// ibkrDecimal parses a number that may carry thousands separators
// ("1,065").
func ibkrDecimal(field func(string) (string, error), name string) (decimal.Decimal, error) {
	s, err := field(name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	s = strings.ReplaceAll(s, ",", "")
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse %q value %q: %w", name, s, err)
	}
	return value, nil
}
