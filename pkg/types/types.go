// Package domain defines the core business types shared by the storefront
// controllers, the remote catalog client, and the CLI.
package domain

// DefaultUnit is the unit label given to cart lines when the source does
// not provide one.
const DefaultUnit = "1 pc"

// Product is a read-only catalog entry sourced from the remote API.
type Product struct {
	ID        int     `json:"id"        validate:"required"`
	Title     string  `json:"title"     validate:"required"`
	Price     float64 `json:"price"     validate:"min=0"`
	Thumbnail string  `json:"thumbnail"`
	Stock     int     `json:"stock"     validate:"min=0"`
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// CartProduct is one row of a server-held cart: the product and the
// quantity stored against it.
type CartProduct struct {
	Product
	Quantity int `json:"quantity" validate:"min=1"`
}
