package mockapi

import (
	"embed"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/donaldgifford/storefront/internal/dummyjson"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Fixtures is the data served by the mock API.
type Fixtures struct {
	Products []dummyjson.Product
	Carts    []dummyjson.CartResponse
}

// LoadFixtures parses the embedded product and cart fixtures.
func LoadFixtures() (*Fixtures, error) {
	var products struct {
		Products []dummyjson.Product `json:"products"`
	}
	if err := readFixture("fixtures/products.json", &products); err != nil {
		return nil, err
	}

	var carts struct {
		Carts []dummyjson.CartResponse `json:"carts"`
	}
	if err := readFixture("fixtures/carts.json", &carts); err != nil {
		return nil, err
	}

	return &Fixtures{Products: products.Products, Carts: carts.Carts}, nil
}

func readFixture(name string, dst any) error {
	data, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing fixture %s: %w", name, err)
	}
	return nil
}
