package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"stock-lookup-bot/internal/domain/model"
)

const (
	productsCollection   = "products"
	lotsCollection       = "lots"
	warehousesCollection = "warehouses"
)

// productEntity mirrors products{_id, productCode, name}.
type productEntity struct {
	ID          primitive.ObjectID `bson:"_id"`
	ProductCode string             `bson:"productCode"`
	Name        string             `bson:"name"`
}

func (e productEntity) toModel() *model.Product {
	return &model.Product{
		ID:          e.ID.Hex(),
		ProductCode: e.ProductCode,
		Name:        e.Name,
	}
}

// lotEntity mirrors lots{productId, warehouse, qtyOnHand, status}.
type lotEntity struct {
	ProductID primitive.ObjectID `bson:"productId"`
	Warehouse primitive.ObjectID `bson:"warehouse"`
	QtyOnHand int64              `bson:"qtyOnHand"`
	Status    string             `bson:"status"`
}

// warehouseEntity mirrors warehouses{_id, name}.
type warehouseEntity struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// warehouseTotalEntity is one row produced by the warehouse totals pipeline.
// Quantities are whole pieces; a double sum (legacy float qtyOnHand) is truncated.
type warehouseTotalEntity struct {
	WarehouseName string `bson:"warehouse_name"`
	TotalQty      int64  `bson:"total_qty,truncate"`
}

func (e warehouseTotalEntity) toModel() model.StockSummaryRow {
	return model.StockSummaryRow{WarehouseName: e.WarehouseName, TotalQty: e.TotalQty}
}
