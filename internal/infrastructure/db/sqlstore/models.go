package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

type userRecord struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Username      string    `gorm:"size:100;not null;uniqueIndex"`
	Email         string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash  string    `gorm:"size:255;not null"`
	UserType      string    `gorm:"size:20;not null;index"`
	IsApproved    bool      `gorm:"not null;default:false;index"`
	PharmacyName  string    `gorm:"size:255"`
	LicenseNumber string    `gorm:"size:100"`
	Address       string    `gorm:"size:500"`
	Phone         string    `gorm:"size:50"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

func toUserRecord(i *domain.Identity) userRecord {
	return userRecord{
		ID:            i.ID,
		Username:      i.Username,
		Email:         i.Email,
		PasswordHash:  i.PasswordHash,
		UserType:      string(i.Role),
		IsApproved:    i.IsApproved,
		PharmacyName:  i.PharmacyName,
		LicenseNumber: i.LicenseNumber,
		Address:       i.Address,
		Phone:         i.Phone,
		CreatedAt:     i.CreatedAt,
	}
}

func (u userRecord) toDomain() domain.Identity {
	return domain.Identity{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Role:          domain.Role(u.UserType),
		IsApproved:    u.IsApproved,
		PharmacyName:  u.PharmacyName,
		LicenseNumber: u.LicenseNumber,
		Address:       u.Address,
		Phone:         u.Phone,
		CreatedAt:     u.CreatedAt.UTC(),
	}
}

type stockRecord struct {
	ID           string          `gorm:"primaryKey;size:36"`
	PharmacyID   string          `gorm:"size:36;not null;index"`
	MedicineName string          `gorm:"size:255;not null;index"`
	Quantity     int64           `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpiryDate   time.Time       `gorm:"type:date;not null;index"`
	BatchNumber  string          `gorm:"size:100;not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

func (stockRecord) TableName() string { return "pharmacy_stocks" }

func toStockRecord(e *domain.StockEntry) stockRecord {
	return stockRecord{
		ID:           e.ID,
		PharmacyID:   e.PharmacyID,
		MedicineName: e.MedicineName,
		Quantity:     e.Quantity,
		Price:        e.Price,
		ExpiryDate:   e.ExpiryDate,
		BatchNumber:  e.BatchNumber,
		CreatedAt:    e.CreatedAt,
	}
}

func (s stockRecord) toDomain() domain.StockEntry {
	return domain.StockEntry{
		ID:           s.ID,
		PharmacyID:   s.PharmacyID,
		MedicineName: s.MedicineName,
		Quantity:     s.Quantity,
		Price:        s.Price,
		ExpiryDate:   domain.CalendarDate(s.ExpiryDate),
		BatchNumber:  s.BatchNumber,
		CreatedAt:    s.CreatedAt.UTC(),
	}
}

// ownedRow is a stock row joined with the public columns of its owner.
type ownedRow struct {
	ID                 string
	PharmacyID         string
	MedicineName       string
	Quantity           int64
	Price              decimal.Decimal
	ExpiryDate         time.Time
	BatchNumber        string
	CreatedAt          time.Time
	OwnerUsername      string
	OwnerEmail         string
	OwnerUserType      string
	OwnerIsApproved    bool
	OwnerPharmacyName  string
	OwnerLicenseNumber string
	OwnerAddress       string
	OwnerPhone         string
	OwnerCreatedAt     time.Time
}

func (r ownedRow) toDomain() domain.OwnedStock {
	return domain.OwnedStock{
		Entry: stockRecord{
			ID:           r.ID,
			PharmacyID:   r.PharmacyID,
			MedicineName: r.MedicineName,
			Quantity:     r.Quantity,
			Price:        r.Price,
			ExpiryDate:   r.ExpiryDate,
			BatchNumber:  r.BatchNumber,
			CreatedAt:    r.CreatedAt,
		}.toDomain(),
		Owner: domain.Identity{
			ID:            r.PharmacyID,
			Username:      r.OwnerUsername,
			Email:         r.OwnerEmail,
			Role:          domain.Role(r.OwnerUserType),
			IsApproved:    r.OwnerIsApproved,
			PharmacyName:  r.OwnerPharmacyName,
			LicenseNumber: r.OwnerLicenseNumber,
			Address:       r.OwnerAddress,
			Phone:         r.OwnerPhone,
			CreatedAt:     r.OwnerCreatedAt.UTC(),
		},
	}
}

type medicineRow struct {
	MedicineName  string
	TotalQuantity int64
	PharmacyCount int64
}
