package handler

type listProductsQuery struct {
	Category string `query:"category"`
	Page     int    `query:"page"  validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type searchProductsQuery struct {
	Query string `query:"q"     validate:"required"`
	Page  int    `query:"page"  validate:"omitempty,min=1"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type bestSellersQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=50"`
}

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

type productListResponse struct {
	Products   []productResponse `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}
