package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MaxKocheshkov/API-service-for-retail/api/middleware"
	cartsvc "github.com/MaxKocheshkov/API-service-for-retail/internal/cart"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
)

type stubCartService struct {
	record       *cartsvc.CartDTO
	err          error
	lastListing  uuid.UUID
	lastQuantity int
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.record, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID, listingID uuid.UUID) (*cartsvc.CartDTO, error) {
	s.lastListing = listingID
	return s.record, s.err
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, userID, listingID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	s.lastListing = listingID
	s.lastQuantity = quantity
	return s.record, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, listingID uuid.UUID) (*cartsvc.CartDTO, error) {
	s.lastListing = listingID
	return s.record, s.err
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
}

func TestCartFetchSuccess(t *testing.T) {
	record := &cartsvc.CartDTO{ID: uuid.New(), Status: enums.CartStatusActive}
	handler := CartFetch(&stubCartService{record: record}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != record.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
}

func TestCartFetchMissingUserContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemPassesListingID(t *testing.T) {
	listingID := uuid.New()
	stub := &stubCartService{record: &cartsvc.CartDTO{ID: uuid.New()}}
	handler := CartAddItem(stub, nil)

	body := `{"listing_id":"` + listingID.String() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastListing != listingID {
		t.Fatalf("expected listing %s got %s", listingID, stub.lastListing)
	}
}

func TestCartAddItemMissingListing(t *testing.T) {
	handler := CartAddItem(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemQuantity(t *testing.T) {
	listingID := uuid.New()
	stub := &stubCartService{record: &cartsvc.CartDTO{ID: uuid.New()}}

	router := chi.NewRouter()
	router.Patch("/api/v1/cart/items/{itemId}", CartUpdateItem(stub, nil))

	resp := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/"+listingID.String(), `{"quantity":4}`)
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.lastListing != listingID || stub.lastQuantity != 4 {
		t.Fatalf("unexpected call: listing=%s quantity=%d", stub.lastListing, stub.lastQuantity)
	}
}

func TestCartUpdateItemRejectsZeroQuantity(t *testing.T) {
	router := chi.NewRouter()
	router.Patch("/api/v1/cart/items/{itemId}", CartUpdateItem(&stubCartService{}, nil))

	resp := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/"+uuid.NewString(), `{"quantity":0}`)
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemBadPathID(t *testing.T) {
	router := chi.NewRouter()
	router.Patch("/api/v1/cart/items/{itemId}", CartUpdateItem(&stubCartService{}, nil))

	resp := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/not-a-uuid", `{"quantity":2}`)
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveItemConflictPassthrough(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeConflict, "listing conflict")}

	router := chi.NewRouter()
	router.Delete("/api/v1/cart/items/{itemId}", CartRemoveItem(stub, nil))

	resp := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/"+uuid.NewString(), "")
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
