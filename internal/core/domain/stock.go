package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// StockEntry is one append-only ledger row reported by a pharmacy.
type StockEntry struct {
	ID           string          `json:"id"`
	PharmacyID   string          `json:"pharmacy_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	BatchNumber  string          `json:"batch_number"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Validate checks the value rules of an entry before it is appended.
func (e StockEntry) Validate() error {
	switch {
	case strings.TrimSpace(e.MedicineName) == "":
		return fmt.Errorf("%w: medicine name is required", ErrInvalidEntry)
	case strings.TrimSpace(e.BatchNumber) == "":
		return fmt.Errorf("%w: batch number is required", ErrInvalidEntry)
	case e.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidEntry)
	case e.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidEntry)
	case e.ExpiryDate.IsZero():
		return fmt.Errorf("%w: expiry date is required", ErrInvalidEntry)
	}
	return nil
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expiry date must be YYYY-MM-DD", ErrInvalidEntry)
	}
	return t, nil
}

// OwnedStock pairs a ledger row with the identity that owns it.
type OwnedStock struct {
	Entry StockEntry
	Owner Identity
}
