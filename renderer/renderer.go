// Package renderer formats tracker data as markdown reports.
package renderer

import (
	"fmt"
	"strings"

	tracker "github.com/MJCFL/personal-finance-tracker"
)

// reporter accumulates markdown output.
type reporter struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the report buffer.
func (r *reporter) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

// SummaryMarkdown generates a markdown net-worth report from a summary.
func SummaryMarkdown(s *tracker.Summary) string {
	r := &reporter{Builder: &strings.Builder{}}

	r.Printf("# Net Worth\n\n")
	r.Printf("Assets: %s  \n", s.Assets)
	r.Printf("Liabilities: %s  \n", s.Liabilities)
	r.Printf("**Net Worth: %s**\n\n", s.NetWorth)

	if len(s.Accounts) > 0 {
		r.Printf("## Accounts\n\n")
		r.Printf("| Account | Type | Balance | Holdings |\n")
		r.Printf("|:---|:---|---:|---:|\n")
		for _, a := range s.Accounts {
			r.Printf("| %s | %s | %s | %s |\n", a.Name, a.Type, a.Balance, a.HoldingsValue)
		}
		r.Printf("\n")
	}

	if len(s.Budgets) > 0 {
		r.Printf("## Budgets\n\n")
		r.Printf("| Category | Period | Target | Spent | Used |\n")
		r.Printf("|:---|:---|---:|---:|---:|\n")
		for _, b := range s.Budgets {
			r.Printf("| %s | %s | %s | %s | %.0f%% |\n", b.Category, b.Period, b.Target, b.Spent, b.Utilization*100)
		}
		r.Printf("\n")
	}

	return r.String()
}

// HoldingsMarkdown generates a markdown report of an account's positions.
func HoldingsMarkdown(a *tracker.Account) string {
	r := &reporter{Builder: &strings.Builder{}}

	r.Printf("# Holdings in %s\n\n", a.Name)
	if len(a.Holdings) == 0 {
		r.Printf("No open positions.\n")
		return r.String()
	}
	r.Printf("| Symbol | Quantity | Cost Basis | Last Price | Market Value |\n")
	r.Printf("|:---|---:|---:|---:|---:|\n")
	for _, h := range a.Holdings {
		r.Printf("| %s | %s | %s | %s | %s |\n",
			h.Symbol, h.TotalQuantity(), h.CostBasis(), h.LastPrice, h.MarketValue())
	}
	r.Printf("\n")
	return r.String()
}
