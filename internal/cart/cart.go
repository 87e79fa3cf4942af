// Package cart holds the session's cart line items and derives totals from
// them. A cart may be seeded once from a server-held cart; seed failures are
// kept as a visible status until the caller retries.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/donaldgifford/storefront/internal/metrics"
	domain "github.com/donaldgifford/storefront/pkg/types"
)

// DefaultDelivery is the flat delivery fee added to every cart.
const DefaultDelivery = 2.00

var (
	// ErrInvalidQuantity is returned when an item is added with a quantity
	// below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrNoSeeder is returned by Load and Retry when no seed source is set.
	ErrNoSeeder = errors.New("cart has no seed source")
)

// Seeder fetches a server-held cart.
type Seeder interface {
	FetchCart(ctx context.Context, cartID int) ([]domain.CartProduct, error)
}

// LineItem is one product in the cart.
type LineItem struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit"`
	Thumbnail string  `json:"thumbnail"`
}

// Total returns price times quantity.
func (l *LineItem) Total() float64 {
	return l.Price * float64(l.Quantity)
}

// Totals is the price breakdown of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Delivery float64 `json:"delivery"`
	Total    float64 `json:"total"`
}

// SeedStatus reports the state of the last seed attempt. Err is non-nil
// after a failed attempt and stays set until a later attempt succeeds.
type SeedStatus struct {
	Loading bool
	Loaded  bool
	Err     error
}

// Cart is a mutex-guarded, insertion-ordered set of line items keyed by
// product id.
type Cart struct {
	log      *slog.Logger
	delivery float64
	unit     string
	seeder   Seeder
	cartID   int

	mu      sync.Mutex
	items   []LineItem
	status  SeedStatus
	seedSeq uint64
}

// Option configures the Cart.
type Option func(*Cart)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cart) {
		c.log = l
	}
}

// WithDelivery overrides the flat delivery fee.
func WithDelivery(fee float64) Option {
	return func(c *Cart) {
		c.delivery = fee
	}
}

// WithUnit overrides the unit label given to new line items.
func WithUnit(unit string) Option {
	return func(c *Cart) {
		if unit != "" {
			c.unit = unit
		}
	}
}

// WithSeeder configures the server cart that Load fetches.
func WithSeeder(s Seeder, cartID int) Option {
	return func(c *Cart) {
		c.seeder = s
		c.cartID = cartID
	}
}

// New creates an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{
		log:      slog.Default(),
		delivery: DefaultDelivery,
		unit:     domain.DefaultUnit,
		items:    []LineItem{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem puts product in the cart with the given quantity. If the product
// is already present its quantity is replaced, not incremented.
func (c *Cart) AddItem(product *domain.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("adding product %d: %w", product.ID, ErrInvalidQuantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(product.ID); i >= 0 {
		c.items[i].Quantity = quantity
		c.log.Debug("cart quantity replaced", "id", product.ID, "quantity", quantity)
		return nil
	}

	c.items = append(c.items, LineItem{
		ID:        product.ID,
		Name:      product.Title,
		Price:     product.Price,
		Quantity:  quantity,
		Unit:      c.unit,
		Thumbnail: product.Thumbnail,
	})
	c.updateGaugeLocked()
	c.log.Debug("cart item added", "id", product.ID, "quantity", quantity)
	return nil
}

// UpdateQuantity sets the quantity of id. A quantity below one removes the
// line. It reports whether a line with id existed.
func (c *Cart) UpdateQuantity(id, quantity int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	if quantity < 1 {
		c.removeAtLocked(i)
		return true
	}
	c.items[i].Quantity = quantity
	return true
}

// Remove deletes the line for id and reports whether it existed.
func (c *Cart) Remove(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	c.removeAtLocked(i)
	return true
}

// Replace swaps the whole line-item set for items. Later duplicates of an
// id are dropped, as are lines with quantity below one.
func (c *Cart) Replace(items []LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(items)
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// ComputeTotals sums the line items and adds the delivery fee.
func (c *Cart) ComputeTotals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var subtotal float64
	for i := range c.items {
		subtotal += c.items[i].Total()
	}
	return Totals{
		Subtotal: subtotal,
		Delivery: c.delivery,
		Total:    subtotal + c.delivery,
	}
}

// Load fetches the configured server cart and replaces the line items with
// it. On failure the items are left unchanged and the error is kept in
// Status until a later attempt succeeds.
func (c *Cart) Load(ctx context.Context) error {
	if c.seeder == nil {
		return ErrNoSeeder
	}

	c.mu.Lock()
	c.seedSeq++
	seq := c.seedSeq
	c.status.Loading = true
	c.mu.Unlock()

	lines, err := c.seeder.FetchCart(ctx, c.cartID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seedSeq {
		return err
	}
	c.status.Loading = false

	if err != nil {
		metrics.CartSeedFailuresTotal.Inc()
		c.status.Err = fmt.Errorf("loading cart %d: %w", c.cartID, err)
		c.log.Error("cart seed failed", "cart_id", c.cartID, "error", err)
		return c.status.Err
	}

	items := make([]LineItem, 0, len(lines))
	for i := range lines {
		items = append(items, LineItem{
			ID:        lines[i].ID,
			Name:      lines[i].Title,
			Price:     lines[i].Price,
			Quantity:  lines[i].Quantity,
			Unit:      c.unit,
			Thumbnail: lines[i].Thumbnail,
		})
	}
	c.replaceLocked(items)
	c.status.Loaded = true
	c.status.Err = nil
	c.log.Info("cart seeded", "cart_id", c.cartID, "items", len(c.items))
	return nil
}

// Retry re-runs Load. There is no automatic retry.
func (c *Cart) Retry(ctx context.Context) error {
	c.log.Debug("retrying cart seed", "cart_id", c.cartID)
	return c.Load(ctx)
}

// Status returns the state of the last seed attempt.
func (c *Cart) Status() SeedStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Cart) replaceLocked(items []LineItem) {
	seen := make(map[int]struct{}, len(items))
	out := make([]LineItem, 0, len(items))
	for i := range items {
		if items[i].Quantity < 1 {
			continue
		}
		if _, dup := seen[items[i].ID]; dup {
			continue
		}
		seen[items[i].ID] = struct{}{}
		item := items[i]
		if item.Unit == "" {
			item.Unit = c.unit
		}
		out = append(out, item)
	}
	c.items = out
	c.updateGaugeLocked()
}

func (c *Cart) indexLocked(id int) int {
	return slices.IndexFunc(c.items, func(l LineItem) bool { return l.ID == id })
}

func (c *Cart) removeAtLocked(i int) {
	c.log.Debug("cart item removed", "id", c.items[i].ID)
	c.items = slices.Delete(c.items, i, i+1)
	c.updateGaugeLocked()
}

func (c *Cart) updateGaugeLocked() {
	metrics.CartLineItems.Set(float64(len(c.items)))
}
