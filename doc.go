// Package fifotax computes Polish capital-gains and dividend tax from
// brokerage activity logs.
//
// Broker exports are converted into a chronological list of activities
// (buys, sells, dividends) whose monetary values carry both the original
// currency and the PLN equivalent obtained from historical NBP daily
// rates. Replaying the activities through a per-symbol FIFO lot ledger
// yields per-year, per-symbol tax returns.
package fifotax
