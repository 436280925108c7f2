package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/api/middleware"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
)

func partnerRequest(method, target, body string) *http.Request {
	req := authedRequest(method, target, body)
	return req.WithContext(middleware.WithShopID(req.Context(), uuid.New().String()))
}

func TestPartnerProductsRequiresShopContext(t *testing.T) {
	handler := PartnerProducts(&stubCatalogService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/partner/products", ""))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestPartnerOrdersPassesShopID(t *testing.T) {
	stub := &stubOrderService{}
	handler := PartnerOrders(stub, nil)

	req := partnerRequest(http.MethodGet, "/api/v1/partner/orders", "")
	shopID := middleware.ShopIDFromContext(req.Context())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastShopID.String() != shopID {
		t.Fatalf("expected shop %s got %s", shopID, stub.lastShopID)
	}
}

func TestPartnerStateSetRejectsUnknownState(t *testing.T) {
	handler := PartnerStateSet(&stubCatalogService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, partnerRequest(http.MethodPut, "/api/v1/partner/state", `{"state":"maybe"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPartnerImportNilImporter(t *testing.T) {
	handler := PartnerImport(nil, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, partnerRequest(http.MethodPost, "/api/v1/partner/import", `{}`))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for nil importer got %d", resp.Code)
	}
}

func TestPartnerStateGetForbiddenPassthrough(t *testing.T) {
	stub := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeForbidden, "not your shop")}
	handler := PartnerStateGet(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, partnerRequest(http.MethodGet, "/api/v1/partner/state", ""))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
