package dummyjson

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/donaldgifford/storefront/internal/metrics"
	domain "github.com/donaldgifford/storefront/pkg/types"
)

// ToProducts converts API products into domain products, dropping any that
// fail validation (missing id or title, negative price or stock).
func ToProducts(v *validator.Validate, log *slog.Logger, items []Product) []domain.Product {
	products := make([]domain.Product, 0, len(items))
	for i := range items {
		p := toProduct(&items[i])
		if err := v.Struct(&p); err != nil {
			metrics.RemoteProductsRejected.Inc()
			log.Warn("dropping invalid product", "id", items[i].ID, "error", err)
			continue
		}
		products = append(products, p)
	}
	return products
}

// ToCartProducts converts cart rows into domain cart products, dropping
// rows that fail validation.
func ToCartProducts(v *validator.Validate, log *slog.Logger, lines []CartLine) []domain.CartProduct {
	out := make([]domain.CartProduct, 0, len(lines))
	for i := range lines {
		cp := domain.CartProduct{
			Product: domain.Product{
				ID:        lines[i].ID,
				Title:     lines[i].Title,
				Price:     lines[i].Price,
				Thumbnail: lines[i].Thumbnail,
			},
			Quantity: lines[i].Quantity,
		}
		if err := v.Struct(&cp); err != nil {
			metrics.RemoteProductsRejected.Inc()
			log.Warn("dropping invalid cart line", "id", lines[i].ID, "error", err)
			continue
		}
		out = append(out, cp)
	}
	return out
}

func toProduct(item *Product) domain.Product {
	return domain.Product{
		ID:        item.ID,
		Title:     item.Title,
		Price:     item.Price,
		Thumbnail: item.Thumbnail,
		Stock:     item.Stock,
	}
}
