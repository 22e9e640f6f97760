package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sehatsathi/inventory-api/internal/api/middleware"
	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

type stubStockService struct {
	addFn func(ctx context.Context, actor domain.Claims, in ports.AddStockInput) (*ports.AddStockResult, error)
}

func (s *stubStockService) ListOwn(context.Context, domain.Claims) ([]domain.StockEntry, error) {
	return nil, nil
}

func (s *stubStockService) Add(ctx context.Context, actor domain.Claims, in ports.AddStockInput) (*ports.AddStockResult, error) {
	return s.addFn(ctx, actor, in)
}

func (s *stubStockService) ListAllApproved(context.Context, domain.Claims) ([]domain.OwnedStock, error) {
	return nil, nil
}

type staticVerifier domain.Claims

func (v staticVerifier) Verify(string) (domain.Claims, error) { return domain.Claims(v), nil }

const addStockBody = `{"medicine_name":"Dolo 650","quantity":12,"price":"35.75","expiry_date":"2026-05-01","batch_number":"BATCH2001"}`

func TestStockHandler_Add_PassesIdempotencyKey(t *testing.T) {
	stub := &stubStockService{
		addFn: func(ctx context.Context, actor domain.Claims, in ports.AddStockInput) (*ports.AddStockResult, error) {
			if actor.IdentityID != "p1" {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if in.IdempotencyKey != "req-42" || in.Quantity != 12 || in.Price.String() != "35.75" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AddStockResult{EntryID: "e1", Replayed: true}, nil
		},
	}

	_, c, rec := newJSONContext(http.MethodPost, "/api/pharmacy/stocks", addStockBody)
	c.Request().Header.Set("Idempotency-Key", "req-42")

	h := middleware.Auth(staticVerifier{IdentityID: "p1", Role: domain.RolePharmacy})(NewStockHandler(stub).Add)
	c.Request().Header.Set("Authorization", "Bearer x")
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("replay must answer 200, got %d", rec.Code)
	}
	var resp addStockResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID != "e1" || !resp.Replayed {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestStockHandler_Add_NegativeQuantity(t *testing.T) {
	stub := &stubStockService{
		addFn: func(context.Context, domain.Claims, ports.AddStockInput) (*ports.AddStockResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	_, c, _ := newJSONContext(http.MethodPost, "/api/pharmacy/stocks",
		`{"medicine_name":"Dolo 650","quantity":-1,"price":1,"expiry_date":"2026-05-01","batch_number":"B"}`)
	c.Request().Header.Set("Authorization", "Bearer x")

	h := middleware.Auth(staticVerifier{IdentityID: "p1", Role: domain.RolePharmacy})(NewStockHandler(stub).Add)
	if err := h(c); !errors.Is(err, domain.ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestStockHandler_Add_WithoutClaims(t *testing.T) {
	e, c, rec := newJSONContext(http.MethodPost, "/api/pharmacy/stocks", addStockBody)

	if err := NewStockHandler(&stubStockService{}).Add(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
