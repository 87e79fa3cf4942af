package dummyjson

// Product mirrors a product object returned by the /products endpoints.
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	Brand              string   `json:"brand,omitempty"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Rating             float64  `json:"rating,omitempty"`
	Stock              int      `json:"stock"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images,omitempty"`
}

// ProductsResponse is the envelope for /products and /products/search.
type ProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// CartLine is a product row inside a cart.
type CartLine struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Total              float64 `json:"total"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
	DiscountedTotal    float64 `json:"discountedTotal,omitempty"`
	Thumbnail          string  `json:"thumbnail"`
}

// CartResponse is the envelope for /carts/{id}.
type CartResponse struct {
	ID              int        `json:"id"`
	Products        []CartLine `json:"products"`
	Total           float64    `json:"total"`
	DiscountedTotal float64    `json:"discountedTotal"`
	UserID          int        `json:"userId"`
	TotalProducts   int        `json:"totalProducts"`
	TotalQuantity   int        `json:"totalQuantity"`
}
