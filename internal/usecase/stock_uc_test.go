package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-lookup-bot/internal/domain"
	"stock-lookup-bot/internal/domain/model"
)

func seededRepo() *memStockRepo {
	repo := newMemStockRepo()
	repo.addProduct(model.Product{ID: "p1", ProductCode: "1015KH", Name: "Widget"})
	repo.addProduct(model.Product{ID: "p2", ProductCode: "2020KH", Name: "Gadget"})
	repo.addProduct(model.Product{ID: "p3", ProductCode: "3030KH", Name: "Gizmo"})
	repo.addWarehouse(model.Warehouse{ID: "wa", Name: "Warehouse A"})
	repo.addWarehouse(model.Warehouse{ID: "wb", Name: "Warehouse B"})
	repo.addWarehouse(model.Warehouse{ID: "wc", Name: "Warehouse C"})

	repo.addLot(model.Lot{ProductID: "p1", WarehouseID: "wa", QtyOnHand: 2, Status: "active"})
	repo.addLot(model.Lot{ProductID: "p1", WarehouseID: "wa", QtyOnHand: 3, Status: "active"})
	repo.addLot(model.Lot{ProductID: "p1", WarehouseID: "wb", QtyOnHand: 3, Status: "active"})
	repo.addLot(model.Lot{ProductID: "p1", WarehouseID: "wc", QtyOnHand: 4, Status: "active"})
	repo.addLot(model.Lot{ProductID: "p1", WarehouseID: "wc", QtyOnHand: -4, Status: "active"})
	repo.addLot(model.Lot{ProductID: "p1", WarehouseID: "wb", QtyOnHand: 50, Status: "inactive"})
	repo.addLot(model.Lot{ProductID: "p1", WarehouseID: "unknown", QtyOnHand: 9, Status: "active"})

	repo.addLot(model.Lot{ProductID: "p2", WarehouseID: "wa", QtyOnHand: 10, Status: "inactive"})

	repo.addLot(model.Lot{ProductID: "p3", WarehouseID: "wa", QtyOnHand: 5, Status: "active"})
	repo.addLot(model.Lot{ProductID: "p3", WarehouseID: "wa", QtyOnHand: -7, Status: "active"})
	return repo
}

func TestStockUseCase_Found(t *testing.T) {
	t.Parallel()

	uc := NewStockUseCase(seededRepo(), StockOptions{}, newTestLogger())
	res := uc.LookupStock(context.Background(), "1015KH")

	require.Equal(t, LookupFound, res.Status)
	require.NotNil(t, res.Summary)
	assert.NoError(t, res.Err)
	assert.Equal(t, "Widget", res.Summary.ProductName)
	assert.Equal(t, []model.StockSummaryRow{
		{WarehouseName: "Warehouse A", TotalQty: 5},
		{WarehouseName: "Warehouse B", TotalQty: 3},
	}, res.Summary.Rows)
	assert.Equal(t, int64(8), res.Summary.TotalQty())
}

func TestStockUseCase_NotFound(t *testing.T) {
	t.Parallel()

	cases := map[string]model.ProductCode{
		"unknown code":         "9999KH",
		"only inactive lots":   "2020KH",
		"non-positive summary": "3030KH",
	}
	for name, code := range cases {
		code := code
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			uc := NewStockUseCase(seededRepo(), StockOptions{}, newTestLogger())
			res := uc.LookupStock(context.Background(), code)
			assert.Equal(t, LookupNotFound, res.Status)
			assert.Nil(t, res.Summary)
			assert.NoError(t, res.Err)
			assert.Equal(t, code, res.Code)
		})
	}
}

func TestStockUseCase_QueryErrors(t *testing.T) {
	t.Parallel()

	t.Run("find fails", func(t *testing.T) {
		repo := seededRepo()
		repo.findErr = errors.New("server selection timeout")
		res := NewStockUseCase(repo, StockOptions{}, newTestLogger()).LookupStock(context.Background(), "1015KH")
		assert.Equal(t, LookupError, res.Status)
		assert.ErrorIs(t, res.Err, domain.ErrQuery)
	})

	t.Run("aggregation fails", func(t *testing.T) {
		repo := seededRepo()
		repo.totalsErr = errors.New("cursor killed")
		res := NewStockUseCase(repo, StockOptions{}, newTestLogger()).LookupStock(context.Background(), "1015KH")
		assert.Equal(t, LookupError, res.Status)
		assert.ErrorIs(t, res.Err, domain.ErrQuery)
		assert.Nil(t, res.Summary)
	})
}

func TestStockUseCase_Diagnostics(t *testing.T) {
	t.Parallel()

	t.Run("run on unknown code", func(t *testing.T) {
		repo := seededRepo()
		uc := NewStockUseCase(repo, StockOptions{Diagnostics: true}, newTestLogger())
		uc.LookupStock(context.Background(), "9999KH")
		assert.Equal(t, 1, repo.diagCalls)
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		repo := seededRepo()
		uc := NewStockUseCase(repo, StockOptions{Diagnostics: false}, newTestLogger())
		uc.LookupStock(context.Background(), "9999KH")
		assert.Zero(t, repo.diagCalls)
	})

	t.Run("failure does not change outcome", func(t *testing.T) {
		repo := seededRepo()
		repo.diagErr = errors.New("count failed")
		uc := NewStockUseCase(repo, StockOptions{Diagnostics: true}, newTestLogger())
		res := uc.LookupStock(context.Background(), "9999KH")
		assert.Equal(t, LookupNotFound, res.Status)
	})
}

func TestStockUseCase_Idempotent(t *testing.T) {
	t.Parallel()

	uc := NewStockUseCase(seededRepo(), StockOptions{}, nil)
	first := uc.LookupStock(context.Background(), "1015KH")
	second := uc.LookupStock(context.Background(), "1015KH")
	assert.Equal(t, first, second)
	assert.Equal(t,
		FormatSummary(first.Code, *first.Summary),
		FormatSummary(second.Code, *second.Summary),
	)
}

func TestLookupStatus_String(t *testing.T) {
	assert.Equal(t, "found", LookupFound.String())
	assert.Equal(t, "not_found", LookupNotFound.String())
	assert.Equal(t, "error", LookupError.String())
}
