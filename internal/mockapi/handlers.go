package mockapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/storefront/internal/dummyjson"
)

// defaultLimit matches the upstream API when no limit is given.
const defaultLimit = 30

// catalogHandler serves products and carts from fixtures.
type catalogHandler struct {
	products []dummyjson.Product
	titles   []string
	carts    map[int]dummyjson.CartResponse
	log      *slog.Logger
}

func newCatalogHandler(f *Fixtures, log *slog.Logger) *catalogHandler {
	h := &catalogHandler{
		products: f.Products,
		titles:   make([]string, len(f.Products)),
		carts:    make(map[int]dummyjson.CartResponse, len(f.Carts)),
		log:      log,
	}
	for i := range f.Products {
		h.titles[i] = strings.ToLower(f.Products[i].Title)
	}
	for i := range f.Carts {
		h.carts[f.Carts[i].ID] = f.Carts[i]
	}
	return h
}

// ListProducts handles GET /products?limit=&skip=.
func (h *catalogHandler) ListProducts(c echo.Context) error {
	limit, skip, err := pageParams(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paginate(h.products, limit, skip))
}

// SearchProducts handles GET /products/search?q=. Matching is a
// case-insensitive substring test on the title.
func (h *catalogHandler) SearchProducts(c echo.Context) error {
	limit, skip, err := pageParams(c)
	if err != nil {
		return err
	}

	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	matched := make([]dummyjson.Product, 0, len(h.products))
	for i := range h.products {
		if q == "" || strings.Contains(h.titles[i], q) {
			matched = append(matched, h.products[i])
		}
	}

	resp := paginate(matched, limit, skip)
	h.log.Debug("search", "query", q, "matched", resp.Total, "returned", len(resp.Products))
	return c.JSON(http.StatusOK, resp)
}

// GetCart handles GET /carts/:id.
func (h *catalogHandler) GetCart(c echo.Context) error {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid cart id '%s'", raw))
	}

	cart, ok := h.carts[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Cart with id '%d' not found", id))
	}
	return c.JSON(http.StatusOK, cart)
}

// pageParams reads limit and skip. A limit of 0 returns every item.
func pageParams(c echo.Context) (limit, skip int, err error) {
	limit = defaultLimit
	if s := c.QueryParam("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}
	if s := c.QueryParam("skip"); s != "" {
		skip, err = strconv.Atoi(s)
		if err != nil || skip < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "skip must be a non-negative integer")
		}
	}
	return limit, skip, nil
}

func paginate(items []dummyjson.Product, limit, skip int) dummyjson.ProductsResponse {
	total := len(items)
	if limit == 0 {
		limit = total
	}

	page := []dummyjson.Product{}
	if skip < total {
		// Compare against the remainder so a huge limit cannot overflow.
		end := total
		if limit < total-skip {
			end = skip + limit
		}
		page = items[skip:end]
	}

	return dummyjson.ProductsResponse{
		Products: page,
		Total:    total,
		Skip:     skip,
		Limit:    len(page),
	}
}
