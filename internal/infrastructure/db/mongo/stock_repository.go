package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

type StockRepository struct {
	col *mongo.Collection
}

func NewStockRepository(db *mongo.Database) *StockRepository {
	return &StockRepository{col: db.Collection(collectionStocks)}
}

func (r *StockRepository) Add(ctx context.Context, entry *domain.StockEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toStockDoc(entry)
	if err != nil {
		return fmt.Errorf("encode price: %w", err)
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

func (r *StockRepository) ListByPharmacy(ctx context.Context, pharmacyID string) ([]domain.StockEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"pharmacy_id": pharmacyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	var docs []stockDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode stock: %w", err)
	}

	out := make([]domain.StockEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// approvedPipeline joins each row with its owner and keeps approved owners only.
// Extra stages are appended after the filter.
func approvedPipeline(stages ...bson.D) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "pharmacy_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: "$owner"}},
		{{Key: "$match", Value: bson.D{{Key: "owner.is_approved", Value: true}}}},
	}
	return append(p, stages...)
}

func limitStage(limit int) []bson.D {
	if limit <= 0 {
		return nil
	}
	return []bson.D{{{Key: "$limit", Value: limit}}}
}

func (r *StockRepository) owned(ctx context.Context, pipeline mongo.Pipeline) ([]domain.OwnedStock, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []ownedDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.OwnedStock, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.OwnedStock{Entry: d.stockDoc.toDomain(), Owner: d.Owner.toDomain()})
	}
	return out, nil
}

func (r *StockRepository) ListAllApproved(ctx context.Context) ([]domain.OwnedStock, error) {
	rows, err := r.owned(ctx, approvedPipeline(bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}}))
	if err != nil {
		return nil, fmt.Errorf("list approved stock: %w", err)
	}
	return rows, nil
}

func (r *StockRepository) CountApproved(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, approvedPipeline(bson.D{{Key: "$count", Value: "n"}}))
	if err != nil {
		return 0, fmt.Errorf("count approved stock: %w", err)
	}
	var res []struct {
		N int64 `bson:"n"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return 0, fmt.Errorf("count approved stock: %w", err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0].N, nil
}

func (r *StockRepository) LowStock(ctx context.Context, threshold int64, limit int) ([]domain.OwnedStock, error) {
	stages := []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "quantity", Value: bson.D{{Key: "$lt", Value: threshold}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "quantity", Value: 1}, {Key: "medicine_name", Value: 1}}}},
	}
	rows, err := r.owned(ctx, approvedPipeline(append(stages, limitStage(limit)...)...))
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return rows, nil
}

func (r *StockRepository) ExpiringBy(ctx context.Context, cutoff time.Time, limit int) ([]domain.OwnedStock, error) {
	stages := []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "expiry_date", Value: bson.D{{Key: "$lte", Value: domain.CalendarDate(cutoff)}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "expiry_date", Value: 1}, {Key: "medicine_name", Value: 1}}}},
	}
	rows, err := r.owned(ctx, approvedPipeline(append(stages, limitStage(limit)...)...))
	if err != nil {
		return nil, fmt.Errorf("expiring stock: %w", err)
	}
	return rows, nil
}

func (r *StockRepository) TopMedicines(ctx context.Context, limit int) ([]domain.MedicineAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stages := []bson.D{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$medicine_name"},
			{Key: "total_quantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "pharmacies", Value: bson.D{{Key: "$addToSet", Value: "$pharmacy_id"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "total_quantity", Value: 1},
			{Key: "pharmacy_count", Value: bson.D{{Key: "$size", Value: "$pharmacies"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_quantity", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, approvedPipeline(append(stages, limitStage(limit)...)...))
	if err != nil {
		return nil, fmt.Errorf("top medicines: %w", err)
	}
	var docs []medicineDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("top medicines: %w", err)
	}

	out := make([]domain.MedicineAvailability, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.MedicineAvailability(d))
	}
	return out, nil
}
