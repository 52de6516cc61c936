package tracker

// Summary is the dashboard view of a user's finances: net worth, asset and
// liability totals, holdings value, and budget utilization.
type Summary struct {
	Currency    string           `json:"currency"`
	NetWorth    Money            `json:"netWorth"`
	Assets      Money            `json:"assets"`
	Liabilities Money            `json:"liabilities"`
	Accounts    []AccountSummary `json:"accounts"`
	Budgets     []BudgetSummary  `json:"budgets"`
}

// AccountSummary is one account's contribution to the dashboard.
type AccountSummary struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          AccountType `json:"type"`
	Balance       Money       `json:"balance"`
	HoldingsValue Money       `json:"holdingsValue,omitempty"`
}

// BudgetSummary is one budget's utilization line.
type BudgetSummary struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Period      Period  `json:"period"`
	Target      Money   `json:"target"`
	Spent       Money   `json:"spent"`
	Utilization float64 `json:"utilization"`
}

// Summarize computes the dashboard summary for a user's accounts and
// budgets. Asset balances and holdings add to net worth, liability
// balances (positive-as-owed) subtract from it.
func Summarize(accounts []Account, budgets []Budget, currency string) Summary {
	s := Summary{
		Currency:    currency,
		NetWorth:    M(0, currency),
		Assets:      M(0, currency),
		Liabilities: M(0, currency),
	}
	for i := range accounts {
		a := &accounts[i]
		holdings := a.HoldingsValue()
		s.Accounts = append(s.Accounts, AccountSummary{
			ID:            a.ID,
			Name:          a.Name,
			Type:          a.Type,
			Balance:       a.Balance,
			HoldingsValue: holdings,
		})
		if a.Type.IsLiability() {
			s.Liabilities = s.Liabilities.Add(a.Balance)
		} else {
			s.Assets = s.Assets.Add(a.Balance).Add(holdings)
		}
	}
	s.NetWorth = s.Assets.Sub(s.Liabilities)

	for i := range budgets {
		b := &budgets[i]
		s.Budgets = append(s.Budgets, BudgetSummary{
			ID:          b.ID,
			Category:    b.Category,
			Period:      b.Period,
			Target:      b.Target,
			Spent:       b.Spent,
			Utilization: b.Utilization(),
		})
	}
	return s
}
