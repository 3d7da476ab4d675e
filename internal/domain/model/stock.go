package model

// Product is read-only from the bot's perspective.
type Product struct {
	ID          string
	ProductCode string
	Name        string
}

// Warehouse is referenced by lots.
type Warehouse struct {
	ID   string
	Name string
}

// LotStatusActive is the only lot status that counts towards stock.
const LotStatusActive = "active"

// Lot is a quantity of a product held in one warehouse.
type Lot struct {
	ProductID   string
	WarehouseID string
	QtyOnHand   int64
	Status      string
}

func (l Lot) IsActive() bool { return l.Status == LotStatusActive }

// StockSummaryRow is the summed active quantity held in one warehouse.
type StockSummaryRow struct {
	WarehouseName string
	TotalQty      int64
}

// StockSummary is built per request and never persisted.
type StockSummary struct {
	ProductName string
	Rows        []StockSummaryRow
}

// TotalQty sums all rows.
func (s StockSummary) TotalQty() int64 {
	var total int64
	for _, r := range s.Rows {
		total += r.TotalQty
	}
	return total
}

func (s StockSummary) IsEmpty() bool { return len(s.Rows) == 0 }

// ProductDiagnostics is logged when a code is not found.
type ProductDiagnostics struct {
	TotalProducts int64
	SampleCodes   []string
}
