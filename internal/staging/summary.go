package staging

import "github.com/carteira-app/carteira/internal/models"

// CategorySummary holds the display figures for one category tab.
type CategorySummary struct {
	Category    Category `json:"category"`
	Rows        int      `json:"rows"`
	Selected    int      `json:"selected"`
	AllSelected bool     `json:"all_selected"`

	// SelectedSum totals the category's monetary field over selected rows.
	// Rows whose value is absent are excluded from the sum, not counted as
	// zero; SummedRows says how many rows contributed.
	SelectedSum float64 `json:"selected_sum"`
	SummedRows  int     `json:"summed_rows"`
}

// Summary aggregates selection counts and monetary sums across every
// category. It is recomputed from the live sets on each call, so it always
// reflects the latest selection and row content.
type Summary struct {
	Categories   []CategorySummary `json:"categories"`
	SelectedRows int               `json:"selected_rows"`
	SelectedSum  float64           `json:"selected_sum"`
}

// sumSelected totals a monetary field over a set's selected rows, skipping
// absent values.
func sumSelected[T any](set *Set[T], field func(T) models.Flex) (float64, int) {
	var sum float64
	counted := 0
	for _, rec := range set.Selected() {
		if v, ok := field(rec).Float64(); ok {
			sum += v
			counted++
		}
	}
	return sum, counted
}

// Summary computes the per-category and overall selection figures.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	txSum, txN := sumSelected(s.transactions, func(t models.ParsedTransaction) models.Flex { return t.Total })
	fiSum, fiN := sumSelected(s.fixedIncome, func(f models.ParsedFixedIncome) models.Flex { return f.TotalValue })
	slSum, slN := sumSelected(s.stockLending, func(l models.ParsedStockLending) models.Flex { return l.Total })
	cmSum, cmN := sumSelected(s.cashMovements, func(m models.ParsedCashMovement) models.Flex { return m.Value })
	ifSum, ifN := sumSelected(s.investmentFunds, func(f models.ParsedInvestmentFund) models.Flex { return f.NetBalance })

	categories := []CategorySummary{
		{Category: CategoryTransactions, Rows: s.transactions.Len(), Selected: s.transactions.SelectedCount(), AllSelected: s.transactions.AllSelected(), SelectedSum: txSum, SummedRows: txN},
		{Category: CategoryFixedIncome, Rows: s.fixedIncome.Len(), Selected: s.fixedIncome.SelectedCount(), AllSelected: s.fixedIncome.AllSelected(), SelectedSum: fiSum, SummedRows: fiN},
		{Category: CategoryStockLending, Rows: s.stockLending.Len(), Selected: s.stockLending.SelectedCount(), AllSelected: s.stockLending.AllSelected(), SelectedSum: slSum, SummedRows: slN},
		{Category: CategoryCashMovements, Rows: s.cashMovements.Len(), Selected: s.cashMovements.SelectedCount(), AllSelected: s.cashMovements.AllSelected(), SelectedSum: cmSum, SummedRows: cmN},
		{Category: CategoryInvestmentFunds, Rows: s.investmentFunds.Len(), Selected: s.investmentFunds.SelectedCount(), AllSelected: s.investmentFunds.AllSelected(), SelectedSum: ifSum, SummedRows: ifN},
	}

	summary := Summary{Categories: categories}
	for _, c := range categories {
		summary.SelectedRows += c.Selected
		summary.SelectedSum += c.SelectedSum
	}
	return summary
}
