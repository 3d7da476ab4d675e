package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"stock-lookup-bot/internal/domain"
	"stock-lookup-bot/internal/domain/model"
	"stock-lookup-bot/internal/domain/ports/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo reads products, lots and warehouses. It never writes.
type StockRepo struct {
	db       *mongo.Database
	products *mongo.Collection
	lots     *mongo.Collection
}

func NewStockRepo(db *mongo.Database) *StockRepo {
	return &StockRepo{
		db:       db,
		products: db.Collection(productsCollection),
		lots:     db.Collection(lotsCollection),
	}
}

func (r *StockRepo) FindProductByCode(ctx context.Context, code model.ProductCode) (*model.Product, error) {
	var e productEntity
	err := r.products.FindOne(ctx, bson.D{{Key: "productCode", Value: code.String()}}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, queryErr("find product", err)
	}
	return e.toModel(), nil
}

func (r *StockRepo) WarehouseTotals(ctx context.Context, productID string) ([]model.StockSummaryRow, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, fmt.Errorf("product id %q: %w", productID, err)
	}

	cur, err := r.lots.Aggregate(ctx, warehouseTotalsPipeline(oid))
	if err != nil {
		return nil, queryErr("aggregate lots", err)
	}
	var entities []warehouseTotalEntity
	if err := cur.All(ctx, &entities); err != nil {
		return nil, queryErr("decode lots aggregation", err)
	}

	rows := make([]model.StockSummaryRow, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, e.toModel())
	}
	return rows, nil
}

// warehouseTotalsPipeline sums active lots per warehouse, inner-joins the
// warehouse name, drops non-positive totals and orders by warehouse name.
func warehouseTotalsPipeline(productID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "productId", Value: productID},
			{Key: "status", Value: model.LotStatusActive},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$warehouse"},
			{Key: "total_qty", Value: bson.D{{Key: "$sum", Value: "$qtyOnHand"}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: warehousesCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "warehouse_info"},
		}}},
		{{Key: "$unwind", Value: "$warehouse_info"}},
		{{Key: "$match", Value: bson.D{{Key: "total_qty", Value: bson.D{{Key: "$gt", Value: 0}}}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "warehouse_name", Value: "$warehouse_info.name"},
			{Key: "total_qty", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "warehouse_name", Value: 1}}}},
	}
}

func (r *StockRepo) ProductDiagnostics(ctx context.Context, sampleSize int) (*model.ProductDiagnostics, error) {
	total, err := r.products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, queryErr("count products", err)
	}

	opts := options.Find().
		SetLimit(int64(sampleSize)).
		SetProjection(bson.D{{Key: "productCode", Value: 1}})
	cur, err := r.products.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, queryErr("sample products", err)
	}
	var sample []productEntity
	if err := cur.All(ctx, &sample); err != nil {
		return nil, queryErr("decode product sample", err)
	}

	codes := make([]string, 0, len(sample))
	for _, p := range sample {
		codes = append(codes, p.ProductCode)
	}
	return &model.ProductDiagnostics{TotalProducts: total, SampleCodes: codes}, nil
}

func (r *StockRepo) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return queryErr("ping", err)
	}
	return nil
}

func queryErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrQuery, op, err)
}
