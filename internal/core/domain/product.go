package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog item. Only active products are visible to clients.
type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"image" bson:"image_url"`
	Category    string  `json:"category" bson:"category"`
	Active      bool    `json:"-" bson:"active"`
	InStock     bool    `json:"inStock" bson:"in_stock"`
	Rating      float64 `json:"rating" bson:"rating"`
	ReviewCount int     `json:"reviewCount" bson:"review_count"`
}
