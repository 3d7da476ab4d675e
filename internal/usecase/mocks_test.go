// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/domain"
	"stock-lookup-bot/internal/domain/model"
)

// memStockRepo is a small in-memory implementation of repository.StockRepository
// that applies the same grouping rules as the Mongo pipeline.
type memStockRepo struct {
	mu         sync.RWMutex
	products   map[string]model.Product // by code
	warehouses map[string]model.Warehouse
	lots       []model.Lot

	findErr   error
	totalsErr error
	diagErr   error

	diagCalls int
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{
		products:   make(map[string]model.Product),
		warehouses: make(map[string]model.Warehouse),
	}
}

func (m *memStockRepo) addProduct(p model.Product) { m.products[p.ProductCode] = p }
func (m *memStockRepo) addWarehouse(w model.Warehouse) { m.warehouses[w.ID] = w }
func (m *memStockRepo) addLot(l model.Lot) { m.lots = append(m.lots, l) }

func (m *memStockRepo) FindProductByCode(ctx context.Context, code model.ProductCode) (*model.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[code.String()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memStockRepo) WarehouseTotals(ctx context.Context, productID string) ([]model.StockSummaryRow, error) {
	if m.totalsErr != nil {
		return nil, m.totalsErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := map[string]int64{}
	for _, l := range m.lots {
		if l.ProductID == productID && l.IsActive() {
			sums[l.WarehouseID] += l.QtyOnHand
		}
	}
	var rows []model.StockSummaryRow
	for whID, total := range sums {
		wh, ok := m.warehouses[whID]
		if !ok || total <= 0 {
			continue
		}
		rows = append(rows, model.StockSummaryRow{WarehouseName: wh.Name, TotalQty: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].WarehouseName < rows[j].WarehouseName })
	return rows, nil
}

func (m *memStockRepo) ProductDiagnostics(ctx context.Context, sampleSize int) (*model.ProductDiagnostics, error) {
	m.mu.Lock()
	m.diagCalls++
	m.mu.Unlock()
	if m.diagErr != nil {
		return nil, m.diagErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	codes := make([]string, 0, len(m.products))
	for c := range m.products {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	if len(codes) > sampleSize {
		codes = codes[:sampleSize]
	}
	return &model.ProductDiagnostics{TotalProducts: int64(len(m.products)), SampleCodes: codes}, nil
}

func (m *memStockRepo) Ping(ctx context.Context) error { return m.findErr }

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
