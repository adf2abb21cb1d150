package reconcile

import "testing"

func threeIslands() []Island {
	return []Island{
		{ID: 1, Name: "Island A", Pumps: []Pump{{Name: "A1", ExpectedSales: 10000}}},
		{ID: 2, Name: "Island B", Pumps: []Pump{{Name: "B1", ExpectedSales: 5000}}},
		{ID: 3, Name: "Island C", Pumps: []Pump{{Name: "C1", ExpectedSales: 7000}}},
	}
}

func TestBuildIslandResult(t *testing.T) {
	island := Island{ID: 1, Name: "Island A", Pumps: []Pump{{Name: "A1", ExpectedSales: 10000}}}
	collections := []Collection{
		{ID: "c1", Type: CollectionCash, Amount: 6000},
		{ID: "d1", Type: CollectionDebt, Amount: 4000},
	}
	result := BuildIslandResult(island, SalesEntry{IslandTotalSales: 10200}, collections, 300, 500)
	if result.TotalExpected != 10200 {
		t.Fatalf("expected 10200, got %v", result.TotalExpected)
	}
	if result.TotalCollection != 10000 || result.CashCollection != 6000 || result.DebtCollection != 4000 {
		t.Fatalf("unexpected collection totals: %+v", result)
	}
	if result.TotalExpectedWithCollections != 20200 {
		t.Fatalf("expected 20200, got %v", result.TotalExpectedWithCollections)
	}
	if result.TotalDifference != -200 {
		t.Fatalf("expected difference -200, got %v", result.TotalDifference)
	}
	if !result.IsComplete {
		t.Fatal("expected island complete")
	}
}

func TestAggregateCompletenessGate(t *testing.T) {
	// Island A complete, island B has sales but no collections, island C untouched.
	in := AggregateInput{
		ShiftID: 42,
		Islands: threeIslands(),
		SalesEntries: map[int64]SalesEntry{
			1: {IslandTotalSales: 10000},
			2: {IslandTotalSales: 5000},
		},
		CollectionsByIsland: map[int64][]Collection{
			1: {{ID: "c1", Type: CollectionCash, Amount: 10000}},
		},
	}
	result := Aggregate(in)
	if result.TotalIslands != 3 || result.CompletedIslands != 1 {
		t.Fatalf("expected 1/3 complete, got %d/%d", result.CompletedIslands, result.TotalIslands)
	}
	if result.AllIslandsComplete {
		t.Fatal("gate must stay closed while islands are outstanding")
	}
	if result.Islands[1].HasSales != true || result.Islands[1].HasCollections != false {
		t.Fatalf("unexpected island B state: %+v", result.Islands[1])
	}
}

func TestAggregateGateOpensAndFlips(t *testing.T) {
	in := AggregateInput{
		Islands: threeIslands(),
		SalesEntries: map[int64]SalesEntry{
			1: {IslandTotalSales: 10000},
			2: {IslandTotalSales: 5000},
			3: {IslandTotalSales: 7000},
		},
		CollectionsByIsland: map[int64][]Collection{
			1: {{ID: "c1", Type: CollectionCash, Amount: 10000}},
			2: {{ID: "c2", Type: CollectionCash, Amount: 5000}},
			3: {{ID: "c3", Type: CollectionCash, Amount: 7000}},
		},
	}
	result := Aggregate(in)
	if !result.AllIslandsComplete {
		t.Fatal("expected gate open with all islands complete")
	}

	// Removing the sole collection from one island flips the aggregate gate.
	delete(in.CollectionsByIsland, 1)
	result = Aggregate(in)
	if result.AllIslandsComplete {
		t.Fatal("expected gate closed after removing sole collection")
	}
	if result.Islands[0].IsComplete {
		t.Fatal("island must not be complete without collections")
	}
}

func TestAggregateEmptyShift(t *testing.T) {
	result := Aggregate(AggregateInput{})
	if result.AllIslandsComplete {
		t.Fatal("gate requires at least one island")
	}
}

func TestAggregateNegativeExpected(t *testing.T) {
	in := AggregateInput{
		Islands:          []Island{{ID: 1, Pumps: []Pump{{Name: "P", ExpectedSales: 100}}}},
		ExpensesByIsland: map[int64]float64{1: 400},
		ReceiptsByIsland: map[int64]float64{1: 50},
	}
	result := Aggregate(in)
	if result.Islands[0].TotalExpected != -250 {
		t.Fatalf("expected -250, got %v", result.Islands[0].TotalExpected)
	}
	if result.TotalExpected != -250 {
		t.Fatalf("shift total expected -250, got %v", result.TotalExpected)
	}
}
