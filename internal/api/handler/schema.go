package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// errorResponse is the error envelope rendered by the central error handler.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Request types ---

type registerRequest struct {
	Username      string `json:"username"       validate:"required"`
	Email         string `json:"email"          validate:"required,email"`
	Password      string `json:"password"       validate:"required"`
	UserType      string `json:"user_type"      validate:"required"`
	PharmacyName  string `json:"pharmacy_name"`
	LicenseNumber string `json:"license_number"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password"`
	License  string `json:"license"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

type addStockRequest struct {
	MedicineName string          `json:"medicine_name" validate:"required"`
	Quantity     int64           `json:"quantity"      validate:"gte=0"`
	Price        decimal.Decimal `json:"price"`
	ExpiryDate   string          `json:"expiry_date"   validate:"required"`
	BatchNumber  string          `json:"batch_number"  validate:"required"`
}

// --- Response types ---
// These are owned by the transport layer so the JSON contract is not coupled
// to domain changes.

type messageResponse struct {
	Message string `json:"message"`
}

type registerResponse struct {
	Message          string `json:"message"`
	RequiresApproval bool   `json:"requires_approval"`
}

type loginUserResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	UserType     string `json:"user_type"`
	PharmacyName string `json:"pharmacy_name,omitempty"`
	IsApproved   *bool  `json:"is_approved,omitempty"`
}

type loginResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresAt   time.Time         `json:"expires_at"`
	Role        string            `json:"role"`
	User        loginUserResponse `json:"user"`
}

type signupCredentials struct {
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	PharmacyName string `json:"pharmacy_name"`
}

type signupResponse struct {
	Message     string            `json:"message"`
	Credentials signupCredentials `json:"credentials"`
}

type identityResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	UserType      string    `json:"user_type"`
	IsApproved    bool      `json:"is_approved"`
	PharmacyName  string    `json:"pharmacy_name,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
	Address       string    `json:"address,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type stockEntryResponse struct {
	ID           string          `json:"id"`
	PharmacyID   string          `json:"pharmacy_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ExpiryDate   string          `json:"expiry_date"`
	BatchNumber  string          `json:"batch_number"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ownedStockResponse struct {
	stockEntryResponse
	PharmacyName string `json:"pharmacy_name"`
	Address      string `json:"address"`
}

type addStockResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	Replayed bool   `json:"replayed,omitempty"`
}

type statisticsResponse struct {
	TotalPharmacies   int64 `json:"total_pharmacies"`
	PendingApprovals  int64 `json:"pending_approvals"`
	TotalMedicines    int64 `json:"total_medicines"`
	LowStockCount     int   `json:"low_stock_count"`
	ExpiringSoonCount int   `json:"expiring_soon_count"`
}

type recentPharmacyResponse struct {
	Username     string    `json:"username"`
	PharmacyName string    `json:"pharmacy_name"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	IsApproved   bool      `json:"is_approved"`
}

type lowStockResponse struct {
	MedicineName string `json:"medicine_name"`
	Quantity     int64  `json:"quantity"`
	PharmacyName string `json:"pharmacy_name"`
	Address      string `json:"address"`
}

type expiringResponse struct {
	MedicineName string `json:"medicine_name"`
	ExpiryDate   string `json:"expiry_date"`
	PharmacyName string `json:"pharmacy_name"`
	Address      string `json:"address"`
}

type topMedicineResponse struct {
	MedicineName  string `json:"medicine_name"`
	TotalQuantity int64  `json:"total_quantity"`
	PharmacyCount int64  `json:"pharmacy_count"`
}

type dashboardResponse struct {
	Statistics        statisticsResponse       `json:"statistics"`
	RecentPharmacies  []recentPharmacyResponse `json:"recent_pharmacies"`
	LowStockMedicines []lowStockResponse       `json:"low_stock_medicines"`
	ExpiringMedicines []expiringResponse       `json:"expiring_medicines"`
	TopMedicines      []topMedicineResponse    `json:"top_medicines"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

type snapshotResponse struct {
	TotalPharmacies  int64     `json:"total_pharmacies"`
	PendingApprovals int64     `json:"pending_approvals"`
	TotalMedicines   int64     `json:"total_medicines"`
	LastUpdated      time.Time `json:"last_updated"`
}
