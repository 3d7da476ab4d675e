// File: internal/usecase/stock_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/domain"
	"stock-lookup-bot/internal/domain/model"
	"stock-lookup-bot/internal/domain/ports/repository"
	"stock-lookup-bot/internal/infra/logging"
)

// LookupStatus tags the outcome of a stock lookup.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupError
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// LookupResult is Found with a Summary, NotFound, or Error with Err set.
type LookupResult struct {
	Status  LookupStatus
	Code    model.ProductCode
	Summary *model.StockSummary
	Err     error
}

// Compile-time check
var _ StockUseCase = (*stockUC)(nil)

type StockUseCase interface {
	LookupStock(ctx context.Context, code model.ProductCode) LookupResult
}

// StockOptions tunes the lookup. Zero values fall back to defaults.
type StockOptions struct {
	QueryTimeout time.Duration
	Diagnostics  bool
	SampleSize   int
}

type stockUC struct {
	repo repository.StockRepository
	opts StockOptions
	log  *zerolog.Logger
}

func NewStockUseCase(repo repository.StockRepository, opts StockOptions, logger *zerolog.Logger) *stockUC {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 10 * time.Second
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = 5
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &stockUC{repo: repo, opts: opts, log: logger}
}

func (s *stockUC) LookupStock(ctx context.Context, code model.ProductCode) LookupResult {
	log := logging.With(ctx, s.log)
	defer logging.TraceDuration(log, "StockUC.LookupStock")()

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	product, err := s.repo.FindProductByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Str("product_code", code.String()).Msg("no product found for code")
		s.logDiagnostics(ctx, log)
		return LookupResult{Status: LookupNotFound, Code: code}
	}
	if err != nil {
		return s.failed(code, fmt.Errorf("find product %s: %w", code, err))
	}
	log.Info().
		Str("product_code", code.String()).
		Str("product_id", product.ID).
		Str("product_name", product.Name).
		Msg("found product")

	rows, err := s.repo.WarehouseTotals(ctx, product.ID)
	if err != nil {
		return s.failed(code, fmt.Errorf("warehouse totals for %s: %w", code, err))
	}
	log.Debug().Str("product_code", code.String()).Interface("rows", rows).Msg("aggregation results")

	summary := &model.StockSummary{ProductName: product.Name, Rows: rows}
	if summary.IsEmpty() {
		log.Warn().Str("product_code", code.String()).Msg("no stock found for product")
		return LookupResult{Status: LookupNotFound, Code: code}
	}
	return LookupResult{Status: LookupFound, Code: code, Summary: summary}
}

func (s *stockUC) failed(code model.ProductCode, err error) LookupResult {
	if !errors.Is(err, domain.ErrQuery) {
		err = fmt.Errorf("%w: %w", domain.ErrQuery, err)
	}
	return LookupResult{Status: LookupError, Code: code, Err: err}
}

// logDiagnostics never changes the lookup outcome.
func (s *stockUC) logDiagnostics(ctx context.Context, log *zerolog.Logger) {
	if !s.opts.Diagnostics {
		return
	}
	d, err := s.repo.ProductDiagnostics(ctx, s.opts.SampleSize)
	if err != nil {
		log.Warn().Err(err).Msg("product diagnostics unavailable")
		return
	}
	log.Info().
		Int64("total_products", d.TotalProducts).
		Strs("sample_codes", d.SampleCodes).
		Msg("product collection diagnostics")
}
