package handler

import (
	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.UserType,
		PharmacyName:  req.PharmacyName,
		LicenseNumber: req.LicenseNumber,
		Address:       req.Address,
		Phone:         req.Phone,
	}
}

func toSignupInput(req signupRequest) ports.PharmacySignupInput {
	return ports.PharmacySignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		License:  req.License,
		Location: req.Location,
		Phone:    req.Phone,
	}
}

func toAddStockInput(req addStockRequest, idempotencyKey string) ports.AddStockInput {
	return ports.AddStockInput{
		MedicineName:   req.MedicineName,
		Quantity:       req.Quantity,
		Price:          req.Price,
		ExpiryDate:     req.ExpiryDate,
		BatchNumber:    req.BatchNumber,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Domain → Response ---

func toLoginResponse(s *ports.Session, mode ports.LoginMode) loginResponse {
	resp := loginResponse{
		AccessToken: s.Token,
		TokenType:   "bearer",
		ExpiresAt:   s.ExpiresAt,
		Role:        string(s.Identity.Role),
		User: loginUserResponse{
			ID:           s.Identity.ID,
			Username:     s.Identity.Username,
			UserType:     string(s.Identity.Role),
			PharmacyName: s.Identity.PharmacyName,
		},
	}
	if mode == ports.LoginPermissive {
		approved := s.Identity.IsApproved
		resp.User.IsApproved = &approved
	}
	return resp
}

func toIdentityResponse(i domain.Identity) identityResponse {
	return identityResponse{
		ID:            i.ID,
		Username:      i.Username,
		Email:         i.Email,
		UserType:      string(i.Role),
		IsApproved:    i.IsApproved,
		PharmacyName:  i.PharmacyName,
		LicenseNumber: i.LicenseNumber,
		Address:       i.Address,
		Phone:         i.Phone,
		CreatedAt:     i.CreatedAt,
	}
}

func toStockEntryResponse(e domain.StockEntry) stockEntryResponse {
	return stockEntryResponse{
		ID:           e.ID,
		PharmacyID:   e.PharmacyID,
		MedicineName: e.MedicineName,
		Quantity:     e.Quantity,
		Price:        e.Price,
		ExpiryDate:   e.ExpiryDate.Format(domain.DateLayout),
		BatchNumber:  e.BatchNumber,
		CreatedAt:    e.CreatedAt,
	}
}

func toOwnedStockResponse(o domain.OwnedStock) ownedStockResponse {
	return ownedStockResponse{
		stockEntryResponse: toStockEntryResponse(o.Entry),
		PharmacyName:       o.Owner.PharmacyName,
		Address:            o.Owner.Address,
	}
}

func toDashboardResponse(d *domain.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Statistics: statisticsResponse{
			TotalPharmacies:   d.Statistics.ApprovedPharmacies,
			PendingApprovals:  d.Statistics.PendingApprovals,
			TotalMedicines:    d.Statistics.TotalStockRows,
			LowStockCount:     d.Statistics.LowStockCount,
			ExpiringSoonCount: d.Statistics.ExpiringSoonCount,
		},
		RecentPharmacies:  make([]recentPharmacyResponse, 0, len(d.RecentRegistrations)),
		LowStockMedicines: make([]lowStockResponse, 0, len(d.LowStock)),
		ExpiringMedicines: make([]expiringResponse, 0, len(d.ExpiringSoon)),
		TopMedicines:      make([]topMedicineResponse, 0, len(d.TopMedicines)),
		GeneratedAt:       d.GeneratedAt,
	}

	for _, p := range d.RecentRegistrations {
		resp.RecentPharmacies = append(resp.RecentPharmacies, recentPharmacyResponse{
			Username:     p.Username,
			PharmacyName: p.PharmacyName,
			Address:      p.Address,
			CreatedAt:    p.CreatedAt,
			IsApproved:   p.IsApproved,
		})
	}
	for _, r := range d.LowStock {
		resp.LowStockMedicines = append(resp.LowStockMedicines, lowStockResponse{
			MedicineName: r.Entry.MedicineName,
			Quantity:     r.Entry.Quantity,
			PharmacyName: r.Owner.PharmacyName,
			Address:      r.Owner.Address,
		})
	}
	for _, r := range d.ExpiringSoon {
		resp.ExpiringMedicines = append(resp.ExpiringMedicines, expiringResponse{
			MedicineName: r.Entry.MedicineName,
			ExpiryDate:   r.Entry.ExpiryDate.Format(domain.DateLayout),
			PharmacyName: r.Owner.PharmacyName,
			Address:      r.Owner.Address,
		})
	}
	for _, m := range d.TopMedicines {
		resp.TopMedicines = append(resp.TopMedicines, topMedicineResponse(m))
	}
	return resp
}

func toSnapshotResponse(s *domain.Snapshot) snapshotResponse {
	return snapshotResponse{
		TotalPharmacies:  s.ApprovedPharmacies,
		PendingApprovals: s.PendingApprovals,
		TotalMedicines:   s.TotalStockRows,
		LastUpdated:      s.RecordedAt,
	}
}
