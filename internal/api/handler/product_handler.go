package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anik/storefront-api/internal/core/ports"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products.
//
// @Summary      List active products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  productListResponse
// @Failure      400       {object}  errorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q listProductsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListProductsInput{
		Category: q.Category,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductListResponse(page))
}

// Search handles GET /api/products/search.
//
// @Summary      Search products by name or description
// @Tags         products
// @Produce      json
// @Param        q      query     string  true   "Search text"
// @Param        page   query     int     false  "Page number (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  productListResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	var q searchProductsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListProductsInput{
		Query: q.Query,
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductListResponse(page))
}

// ByCategory handles GET /api/products/category/:slug.
//
// @Summary      List products of one category
// @Tags         products
// @Produce      json
// @Param        slug   path      string  true   "Category"
// @Param        page   query     int     false  "Page number (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  productListResponse
// @Router       /api/products/category/{slug} [get]
func (h *ProductHandler) ByCategory(c echo.Context) error {
	var q listProductsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListProductsInput{
		Category: c.Param("slug"),
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductListResponse(page))
}

// BestSellers handles GET /api/products/best-sellers.
//
// @Summary      Highest rated products
// @Tags         products
// @Produce      json
// @Param        limit  query     int  false  "Number of products (max 50)"
// @Success      200    {array}   productResponse
// @Router       /api/products/best-sellers [get]
func (h *ProductHandler) BestSellers(c echo.Context) error {
	var q bestSellersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	items, err := h.service.BestSellers(c.Request().Context(), q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(items))
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// Categories handles GET /api/categories.
//
// @Summary      List categories
// @Tags         products
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /api/categories [get]
func (h *ProductHandler) Categories(c echo.Context) error {
	cats, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: cats})
}
