package usecase

import (
	"strconv"
	"strings"

	"stock-lookup-bot/internal/domain/model"
)

// FormatSummary renders a found lookup as the reply text: a header naming the
// code and product, then a warehouse line and an indented quantity line per row.
func FormatSummary(code model.ProductCode, s model.StockSummary) string {
	var b strings.Builder
	b.WriteString("📦 Summary for " + code.String() + " — " + s.ProductName + "\n")
	for _, row := range s.Rows {
		b.WriteString("🏭 " + row.WarehouseName + "\n")
		b.WriteString("   👉 " + s.ProductName + " : " + strconv.FormatInt(row.TotalQty, 10) + " pcs\n")
	}
	return b.String()
}
