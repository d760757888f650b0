package handler

import (
	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
)

// --- Service output → Response ---

func toUserResponse(u domain.IdentitySummary) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.ImageURL,
		Category:    p.Category,
		InStock:     p.InStock,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
	}
}

func toProductResponses(items []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toProductListResponse(page *ports.ProductPage) productListResponse {
	return productListResponse{
		Products:   toProductResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
