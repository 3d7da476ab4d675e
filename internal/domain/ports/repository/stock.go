package repository

import (
	"context"

	"stock-lookup-bot/internal/domain/model"
)

// StockRepository is the read-only port onto the products, lots and warehouses collections.
type StockRepository interface {
	// FindProductByCode returns domain.ErrNotFound when no product has the exact code.
	FindProductByCode(ctx context.Context, code model.ProductCode) (*model.Product, error)
	// WarehouseTotals sums active lots per resolvable warehouse, keeping only positive totals,
	// ordered by warehouse name.
	WarehouseTotals(ctx context.Context, productID string) ([]model.StockSummaryRow, error)
	// ProductDiagnostics reports the product count and up to sampleSize product codes.
	ProductDiagnostics(ctx context.Context, sampleSize int) (*model.ProductDiagnostics, error)
	Ping(ctx context.Context) error
}
