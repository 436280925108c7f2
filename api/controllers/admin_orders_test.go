package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordersvc "github.com/MaxKocheshkov/API-service-for-retail/internal/orders"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/pagination"
)

type stubOrderService struct {
	order      *ordersvc.OrderDTO
	list       *ordersvc.OrderList
	err        error
	lastStatus enums.OrderStatus
	lastShopID uuid.UUID
}

func (s *stubOrderService) Checkout(ctx context.Context, userID uuid.UUID, input ordersvc.CheckoutInput) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListOwn(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ordersvc.OrderList, error) {
	return s.list, s.err
}

func (s *stubOrderService) GetOwn(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListForShop(ctx context.Context, shopID uuid.UUID, page pagination.Params) (*ordersvc.OrderList, error) {
	s.lastShopID = shopID
	return s.list, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	s.lastStatus = next
	return s.order, s.err
}

func adminStatusRouter(svc ordersvc.Service) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/api/admin/v1/orders/{orderId}/status", AdminOrderStatus(svc, nil))
	return router
}

func TestAdminOrderStatusSuccess(t *testing.T) {
	stub := &stubOrderService{order: &ordersvc.OrderDTO{ID: uuid.New(), Status: enums.OrderStatusConfirmed}}
	router := adminStatusRouter(stub)

	body := `{"status":"confirmed"}`
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastStatus != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status passed to service: %s", stub.lastStatus)
	}
}

func TestAdminOrderStatusRejectsUnknownStatus(t *testing.T) {
	router := adminStatusRouter(&stubOrderService{})

	body := `{"status":"teleported"}`
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrderStatusIllegalTransition(t *testing.T) {
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from delivered to new")}
	router := adminStatusRouter(stub)

	body := `{"status":"new"}`
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
