package mongo

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

type identityDoc struct {
	ID            string    `bson:"_id"`
	Username      string    `bson:"username"`
	Email         string    `bson:"email"`
	EmailLower    string    `bson:"email_lower"`
	PasswordHash  string    `bson:"password_hash"`
	UserType      string    `bson:"user_type"`
	IsApproved    bool      `bson:"is_approved"`
	PharmacyName  string    `bson:"pharmacy_name,omitempty"`
	LicenseNumber string    `bson:"license_number,omitempty"`
	Address       string    `bson:"address,omitempty"`
	Phone         string    `bson:"phone,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
}

func toIdentityDoc(i *domain.Identity) identityDoc {
	return identityDoc{
		ID:            i.ID,
		Username:      i.Username,
		Email:         i.Email,
		EmailLower:    strings.ToLower(i.Email),
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

func (d identityDoc) toDomain() domain.Identity {
	return domain.Identity{
		ID:            d.ID,
		Username:      d.Username,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          domain.Role(d.UserType),
		IsApproved:    d.IsApproved,
		PharmacyName:  d.PharmacyName,
		LicenseNumber: d.LicenseNumber,
		Address:       d.Address,
		Phone:         d.Phone,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

type stockDoc struct {
	ID           string               `bson:"_id"`
	PharmacyID   string               `bson:"pharmacy_id"`
	MedicineName string               `bson:"medicine_name"`
	Quantity     int64                `bson:"quantity"`
	Price        primitive.Decimal128 `bson:"price"`
	ExpiryDate   time.Time            `bson:"expiry_date"`
	BatchNumber  string               `bson:"batch_number"`
	CreatedAt    time.Time            `bson:"created_at"`
}

func toStockDoc(e *domain.StockEntry) (stockDoc, error) {
	price, err := primitive.ParseDecimal128(e.Price.String())
	if err != nil {
		return stockDoc{}, err
	}
	return stockDoc{
		ID:           e.ID,
		PharmacyID:   e.PharmacyID,
		MedicineName: e.MedicineName,
		Quantity:     e.Quantity,
		Price:        price,
		ExpiryDate:   e.ExpiryDate,
		BatchNumber:  e.BatchNumber,
		CreatedAt:    e.CreatedAt,
	}, nil
}

func (d stockDoc) toDomain() domain.StockEntry {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		price = decimal.Zero
	}
	return domain.StockEntry{
		ID:           d.ID,
		PharmacyID:   d.PharmacyID,
		MedicineName: d.MedicineName,
		Quantity:     d.Quantity,
		Price:        price,
		ExpiryDate:   domain.CalendarDate(d.ExpiryDate),
		BatchNumber:  d.BatchNumber,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type ownedDoc struct {
	stockDoc `bson:",inline"`
	Owner    identityDoc `bson:"owner"`
}

type medicineDoc struct {
	MedicineName  string `bson:"_id"`
	TotalQuantity int64  `bson:"total_quantity"`
	PharmacyCount int64  `bson:"pharmacy_count"`
}
