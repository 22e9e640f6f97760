package domain

import "time"

// Statistics are the headline counters of the dashboard.
type Statistics struct {
	ApprovedPharmacies int64 `json:"total_pharmacies"`
	PendingApprovals   int64 `json:"pending_approvals"`
	TotalStockRows     int64 `json:"total_medicines"`
	LowStockCount      int   `json:"low_stock_count"`
	ExpiringSoonCount  int   `json:"expiring_soon_count"`
}

// MedicineAvailability is one row of the top-medicines ranking.
type MedicineAvailability struct {
	MedicineName  string `json:"medicine_name"`
	TotalQuantity int64  `json:"total_quantity"`
	PharmacyCount int64  `json:"pharmacy_count"`
}

// Dashboard is the aggregated view served to privileged roles.
type Dashboard struct {
	Statistics          Statistics
	RecentRegistrations []Identity
	LowStock            []OwnedStock
	ExpiringSoon        []OwnedStock
	TopMedicines        []MedicineAvailability
	GeneratedAt         time.Time
}

// Snapshot is the periodically recorded subset of Statistics.
type Snapshot struct {
	ApprovedPharmacies int64     `json:"total_pharmacies"`
	PendingApprovals   int64     `json:"pending_approvals"`
	TotalStockRows     int64     `json:"total_medicines"`
	RecordedAt         time.Time `json:"last_updated"`
}
