package reconcile

// AggregateInput carries the already-resolved per-island figures. Fetching
// expense totals and receipts is the collaborators' job; the aggregator is
// pure over these maps.
type AggregateInput struct {
	ShiftID             int64
	StationID           int64
	Islands             []Island
	SalesEntries        map[int64]SalesEntry
	CollectionsByIsland map[int64][]Collection
	ExpensesByIsland    map[int64]float64
	ReceiptsByIsland    map[int64]float64
}

// BuildIslandResult derives the reconciliation outcome for a single island.
func BuildIslandResult(island Island, sales SalesEntry, collections []Collection, expenses, receipts float64) IslandResult {
	result := IslandResult{
		IslandID:         island.ID,
		IslandName:       island.Name,
		TotalPumpSales:   TotalPumpSales(island),
		TotalActualSales: round2(sales.IslandTotalSales),
		Expenses:         round2(expenses),
		Receipts:         round2(receipts),
	}
	for _, c := range collections {
		switch c.Type {
		case CollectionCash:
			result.CashCollection += c.Amount
		case CollectionDebt:
			result.DebtCollection += c.Amount
		}
	}
	result.CashCollection = round2(result.CashCollection)
	result.DebtCollection = round2(result.DebtCollection)
	result.TotalCollection = round2(result.CashCollection + result.DebtCollection)
	result.TotalExpected = round2(result.TotalPumpSales + result.Receipts - result.Expenses)
	result.TotalExpectedWithCollections = round2(result.TotalActualSales + result.TotalCollection)
	// Positive means more was collected than expected (overage); negative is
	// a shortfall debited to the attendant.
	result.TotalDifference = round2(result.TotalCollection - result.TotalExpected)
	result.HasSales = result.TotalActualSales > 0
	result.HasCollections = len(collections) > 0
	result.IsComplete = result.HasSales && result.HasCollections
	return result
}

// Aggregate rolls per-island results into shift-level totals and the
// completeness gate. Every island must be complete before the shift may
// proceed to submission; there is no partial-submit path.
func Aggregate(in AggregateInput) ShiftResult {
	out := ShiftResult{
		ShiftID:      in.ShiftID,
		StationID:    in.StationID,
		TotalIslands: len(in.Islands),
		Islands:      make([]IslandResult, 0, len(in.Islands)),
	}
	for _, island := range in.Islands {
		result := BuildIslandResult(
			island,
			in.SalesEntries[island.ID],
			in.CollectionsByIsland[island.ID],
			in.ExpensesByIsland[island.ID],
			in.ReceiptsByIsland[island.ID],
		)
		out.TotalPumpSales = round2(out.TotalPumpSales + result.TotalPumpSales)
		out.TotalActualSales = round2(out.TotalActualSales + result.TotalActualSales)
		out.CashCollection = round2(out.CashCollection + result.CashCollection)
		out.DebtCollection = round2(out.DebtCollection + result.DebtCollection)
		out.TotalCollection = round2(out.TotalCollection + result.TotalCollection)
		out.Expenses = round2(out.Expenses + result.Expenses)
		out.Receipts = round2(out.Receipts + result.Receipts)
		out.TotalExpected = round2(out.TotalExpected + result.TotalExpected)
		out.TotalExpectedWithCollections = round2(out.TotalExpectedWithCollections + result.TotalExpectedWithCollections)
		out.TotalDifference = round2(out.TotalDifference + result.TotalDifference)
		if result.IsComplete {
			out.CompletedIslands++
		}
		out.Islands = append(out.Islands, result)
	}
	out.AllIslandsComplete = out.CompletedIslands == out.TotalIslands && out.TotalIslands > 0
	return out
}
