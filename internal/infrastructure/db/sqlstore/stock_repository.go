package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

const ownedColumns = "ps.id, ps.pharmacy_id, ps.medicine_name, ps.quantity, ps.price, ps.expiry_date, ps.batch_number, ps.created_at, " +
	"u.username AS owner_username, u.email AS owner_email, u.user_type AS owner_user_type, u.is_approved AS owner_is_approved, " +
	"u.pharmacy_name AS owner_pharmacy_name, u.license_number AS owner_license_number, " +
	"u.address AS owner_address, u.phone AS owner_phone, u.created_at AS owner_created_at"

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) Add(ctx context.Context, entry *domain.StockEntry) error {
	rec := toStockRecord(entry)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

func (r *StockRepository) ListByPharmacy(ctx context.Context, pharmacyID string) ([]domain.StockEntry, error) {
	var recs []stockRecord
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	out := make([]domain.StockEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

// approved scopes a query to stock rows whose owner is approved.
func (r *StockRepository) approved(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("pharmacy_stocks AS ps").
		Joins("JOIN users AS u ON u.id = ps.pharmacy_id AND u.is_approved = ?", true)
}

func (r *StockRepository) owned(q *gorm.DB) ([]domain.OwnedStock, error) {
	var rows []ownedRow
	if err := q.Select(ownedColumns).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.OwnedStock, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StockRepository) ListAllApproved(ctx context.Context) ([]domain.OwnedStock, error) {
	rows, err := r.owned(r.approved(ctx).Order("ps.created_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("list approved stock: %w", err)
	}
	return rows, nil
}

func (r *StockRepository) CountApproved(ctx context.Context) (int64, error) {
	var n int64
	if err := r.approved(ctx).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count approved stock: %w", err)
	}
	return n, nil
}

func (r *StockRepository) LowStock(ctx context.Context, threshold int64, limit int) ([]domain.OwnedStock, error) {
	q := r.approved(ctx).
		Where("ps.quantity < ?", threshold).
		Order("ps.quantity ASC").
		Order("ps.medicine_name ASC").
		Scopes(withLimit(limit))
	rows, err := r.owned(q)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return rows, nil
}

func (r *StockRepository) ExpiringBy(ctx context.Context, cutoff time.Time, limit int) ([]domain.OwnedStock, error) {
	q := r.approved(ctx).
		Where("ps.expiry_date <= ?", domain.CalendarDate(cutoff)).
		Order("ps.expiry_date ASC").
		Order("ps.medicine_name ASC").
		Scopes(withLimit(limit))
	rows, err := r.owned(q)
	if err != nil {
		return nil, fmt.Errorf("expiring stock: %w", err)
	}
	return rows, nil
}

func (r *StockRepository) TopMedicines(ctx context.Context, limit int) ([]domain.MedicineAvailability, error) {
	var rows []medicineRow
	err := r.approved(ctx).
		Select("ps.medicine_name AS medicine_name, SUM(ps.quantity) AS total_quantity, COUNT(DISTINCT ps.pharmacy_id) AS pharmacy_count").
		Group("ps.medicine_name").
		Order("total_quantity DESC").
		Order("medicine_name ASC").
		Scopes(withLimit(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top medicines: %w", err)
	}
	out := make([]domain.MedicineAvailability, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MedicineAvailability(row))
	}
	return out, nil
}
