package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
)

type stubProductService struct {
	lastList  ports.ListProductsInput
	lastLimit int
	products  map[string]*domain.Product
}

func (s *stubProductService) List(_ context.Context, in ports.ListProductsInput) (*ports.ProductPage, error) {
	s.lastList = in
	items := []*domain.Product{}
	for _, p := range s.products {
		items = append(items, p)
	}
	return &ports.ProductPage{Items: items, Total: int64(len(items)), Page: 1, Limit: 20, TotalPages: 1}, nil
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *stubProductService) BestSellers(_ context.Context, limit int) ([]*domain.Product, error) {
	s.lastLimit = limit
	return []*domain.Product{s.products["p1"]}, nil
}

func (s *stubProductService) Categories(_ context.Context) ([]string, error) {
	return []string{"oils"}, nil
}

func newStubProductService() *stubProductService {
	return &stubProductService{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Argan Oil", Price: 12.5, ImageURL: "https://cdn.example.com/p1.png", Category: "oils", Active: true, InStock: true, Rating: 4.8, ReviewCount: 12},
	}}
}

func getContext(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestProductHandler_List(t *testing.T) {
	e := newTestEcho()
	svc := newStubProductService()
	h := NewProductHandler(svc)

	c, rec := getContext(e, "/api/products?category=oils&page=2&limit=5")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastList.Category != "oils" || svc.lastList.Page != 2 || svc.lastList.Limit != 5 {
		t.Fatalf("unexpected service input: %+v", svc.lastList)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	products, ok := resp["products"].([]any)
	if !ok || len(products) != 1 || resp["total"] != float64(1) || resp["totalPages"] != float64(1) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	p := products[0].(map[string]any)
	if p["image"] != "https://cdn.example.com/p1.png" || p["inStock"] != true || p["reviewCount"] != float64(12) {
		t.Fatalf("unexpected product payload: %+v", p)
	}
	if _, leaked := p["active"]; leaked {
		t.Fatalf("active flag must not be exposed")
	}
}

func TestProductHandler_List_InvalidQuery(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(newStubProductService())

	for _, target := range []string{"/api/products?limit=500", "/api/products?page=-1", "/api/products?page=abc"} {
		c, _ := getContext(e, target)
		assertHTTPError(t, h.List(c), http.StatusBadRequest)
	}
}

func TestProductHandler_Search(t *testing.T) {
	e := newTestEcho()
	svc := newStubProductService()
	h := NewProductHandler(svc)

	c, _ := getContext(e, "/api/products/search?q=argan")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastList.Query != "argan" {
		t.Fatalf("expected query forwarded, got %+v", svc.lastList)
	}

	c, _ = getContext(e, "/api/products/search")
	assertHTTPError(t, h.Search(c), http.StatusBadRequest)
}

func TestProductHandler_ByCategory(t *testing.T) {
	e := newTestEcho()
	svc := newStubProductService()
	h := NewProductHandler(svc)

	c, _ := getContext(e, "/api/products/category/oils")
	c.SetParamNames("slug")
	c.SetParamValues("oils")
	if err := h.ByCategory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastList.Category != "oils" {
		t.Fatalf("expected category from path, got %+v", svc.lastList)
	}
}

func TestProductHandler_BestSellers(t *testing.T) {
	e := newTestEcho()
	svc := newStubProductService()
	h := NewProductHandler(svc)

	c, rec := getContext(e, "/api/products/best-sellers?limit=3")
	if err := h.BestSellers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastLimit != 3 {
		t.Fatalf("expected limit 3, got %d", svc.lastLimit)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp) != 1 {
		t.Fatalf("unexpected payload %s: %v", rec.Body.String(), err)
	}
}

func TestProductHandler_Get(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(newStubProductService())

	c, rec := getContext(e, "/api/products/p1")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = getContext(e, "/api/products/missing")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Get(c); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductHandler_Categories(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(newStubProductService())

	c, rec := getContext(e, "/api/categories")
	if err := h.Categories(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp categoriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp.Categories) != 1 {
		t.Fatalf("unexpected payload %s: %v", rec.Body.String(), err)
	}
}
