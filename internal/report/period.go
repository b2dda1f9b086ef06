package report

import "time"

// Period is the accounting summary for a date range: totals over every paid
// session in the range and one page of per-session reports.
type Period struct {
	From    time.Time          `json:"from"`
	To      time.Time          `json:"to"`
	Totals  []CurrencyTotals   `json:"totals"`
	Entries []AccountingReport `json:"entries"`
}
