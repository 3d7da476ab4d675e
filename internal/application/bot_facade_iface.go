package application

import (
	"context"

	"stock-lookup-bot/internal/domain/model"
	"stock-lookup-bot/internal/usecase"
)

// ---- small interfaces to decouple the facade from concrete implementations ----
// Using interfaces enables tests to pass in light-weight mocks.

type StockUseCaseIface interface {
	LookupStock(ctx context.Context, code model.ProductCode) usecase.LookupResult
}

// Translator resolves reply texts; *i18n.Translator satisfies it.
type Translator interface {
	T(key string, args ...interface{}) string
}

var _ StockUseCaseIface = (usecase.StockUseCase)(nil)
