package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/storefront/internal/cart"
	"github.com/donaldgifford/storefront/internal/cart/mocks"
	"github.com/donaldgifford/storefront/pkg/logger"
	domain "github.com/donaldgifford/storefront/pkg/types"
)

func newCart(opts ...cart.Option) *cart.Cart {
	return cart.New(append([]cart.Option{cart.WithLogger(logger.Discard())}, opts...)...)
}

func product(id int, price float64) *domain.Product {
	return &domain.Product{ID: id, Title: "Item", Price: price, Stock: 10}
}

func quantities(items []cart.LineItem) map[int]int {
	out := make(map[int]int, len(items))
	for _, it := range items {
		out[it.ID] = it.Quantity
	}
	return out
}

func TestCart_AddItem(t *testing.T) {
	t.Parallel()

	c := newCart()
	require.NoError(t, c.AddItem(&domain.Product{ID: 1, Title: "Mascara", Price: 9.99, Thumbnail: "t.png"}, 2))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, cart.LineItem{
		ID:        1,
		Name:      "Mascara",
		Price:     9.99,
		Quantity:  2,
		Unit:      "1 pc",
		Thumbnail: "t.png",
	}, items[0])
}

func TestCart_AddItemReplacesQuantity(t *testing.T) {
	t.Parallel()

	c := newCart()
	require.NoError(t, c.AddItem(product(1, 10), 2))
	require.NoError(t, c.AddItem(product(2, 5), 1))
	require.NoError(t, c.AddItem(product(1, 10), 5))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID, "insertion order is kept")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCart_AddItemInvalidQuantity(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -1} {
		c := newCart()
		err := c.AddItem(product(1, 10), qty)
		require.ErrorIs(t, err, cart.ErrInvalidQuantity)
		assert.Zero(t, c.Len())
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		id        int
		quantity  int
		wantFound bool
		want      map[int]int
	}{
		{name: "set quantity", id: 1, quantity: 4, wantFound: true, want: map[int]int{1: 4, 2: 1}},
		{name: "no upper bound", id: 2, quantity: 500, wantFound: true, want: map[int]int{1: 2, 2: 500}},
		{name: "zero removes", id: 1, quantity: 0, wantFound: true, want: map[int]int{2: 1}},
		{name: "negative removes", id: 1, quantity: -5, wantFound: true, want: map[int]int{2: 1}},
		{name: "absent id is a no-op", id: 99, quantity: 3, wantFound: false, want: map[int]int{1: 2, 2: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newCart()
			require.NoError(t, c.AddItem(product(1, 10), 2))
			require.NoError(t, c.AddItem(product(2, 5), 1))

			assert.Equal(t, tt.wantFound, c.UpdateQuantity(tt.id, tt.quantity))
			assert.Equal(t, tt.want, quantities(c.Items()))
		})
	}
}

func TestCart_Remove(t *testing.T) {
	t.Parallel()

	c := newCart()
	require.NoError(t, c.AddItem(product(1, 10), 1))
	require.NoError(t, c.AddItem(product(2, 10), 1))
	require.NoError(t, c.AddItem(product(3, 10), 1))

	assert.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 3, items[1].ID)
}

func TestCart_ComputeTotals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []cart.Option
		setup func(*cart.Cart)
		want  cart.Totals
	}{
		{
			name: "two lines",
			setup: func(c *cart.Cart) {
				_ = c.AddItem(product(1, 10), 2)
				_ = c.AddItem(product(2, 5), 1)
			},
			want: cart.Totals{Subtotal: 25, Delivery: 2, Total: 27},
		},
		{
			name:  "empty cart still pays delivery",
			setup: func(*cart.Cart) {},
			want:  cart.Totals{Subtotal: 0, Delivery: 2, Total: 2},
		},
		{
			name: "custom delivery",
			opts: []cart.Option{cart.WithDelivery(4.5)},
			setup: func(c *cart.Cart) {
				_ = c.AddItem(product(1, 1.5), 3)
			},
			want: cart.Totals{Subtotal: 4.5, Delivery: 4.5, Total: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newCart(tt.opts...)
			tt.setup(c)

			got := c.ComputeTotals()
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.Delivery, got.Delivery, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
		})
	}
}

func TestCart_TotalsTrackMutations(t *testing.T) {
	t.Parallel()

	c := newCart()
	require.NoError(t, c.AddItem(product(1, 10), 2))
	assert.InDelta(t, 22.0, c.ComputeTotals().Total, 1e-9)

	c.UpdateQuantity(1, 3)
	assert.InDelta(t, 32.0, c.ComputeTotals().Total, 1e-9)

	c.UpdateQuantity(1, 0)
	assert.InDelta(t, 2.0, c.ComputeTotals().Total, 1e-9)
}

func TestCart_Replace(t *testing.T) {
	t.Parallel()

	c := newCart(cart.WithUnit("1 box"))
	require.NoError(t, c.AddItem(product(9, 1), 1))

	c.Replace([]cart.LineItem{
		{ID: 1, Name: "a", Price: 1, Quantity: 2},
		{ID: 2, Name: "b", Price: 1, Quantity: 0},
		{ID: 1, Name: "dup", Price: 1, Quantity: 7},
		{ID: 3, Name: "c", Price: 1, Quantity: 1, Unit: "1 kg"},
	})

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "1 box", items[0].Unit)
	assert.Equal(t, 3, items[1].ID)
	assert.Equal(t, "1 kg", items[1].Unit)
}

func TestCart_ItemsIsACopy(t *testing.T) {
	t.Parallel()

	c := newCart()
	require.NoError(t, c.AddItem(product(1, 10), 1))

	items := c.Items()
	items[0].Quantity = 50
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestCart_Load(t *testing.T) {
	t.Parallel()

	ms := mocks.NewMockSeeder(t)
	ms.EXPECT().FetchCart(mock.Anything, 1).Return([]domain.CartProduct{
		{Product: domain.Product{ID: 168, Title: "Charger SXT RWD", Price: 32999.99}, Quantity: 3},
		{Product: domain.Product{ID: 78, Title: "Apple MacBook Pro", Price: 1999.99}, Quantity: 2},
	}, nil).Once()

	c := newCart(cart.WithSeeder(ms, 1))
	require.NoError(t, c.AddItem(product(5, 1), 1))

	require.NoError(t, c.Load(context.Background()))

	st := c.Status()
	assert.True(t, st.Loaded)
	assert.False(t, st.Loading)
	require.NoError(t, st.Err)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Charger SXT RWD", items[0].Name)
	assert.Equal(t, "1 pc", items[0].Unit)
	assert.Equal(t, map[int]int{168: 3, 78: 2}, quantities(items))
}

func TestCart_LoadFailureThenRetry(t *testing.T) {
	t.Parallel()

	ms := mocks.NewMockSeeder(t)
	ms.EXPECT().FetchCart(mock.Anything, 7).Return(nil, errors.New("connection refused")).Once()
	ms.EXPECT().FetchCart(mock.Anything, 7).Return([]domain.CartProduct{
		{Product: domain.Product{ID: 1, Title: "a", Price: 2}, Quantity: 1},
	}, nil).Once()

	c := newCart(cart.WithSeeder(ms, 7))

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading cart 7")

	st := c.Status()
	assert.False(t, st.Loaded)
	assert.False(t, st.Loading)
	require.Error(t, st.Err)
	assert.Zero(t, c.Len(), "failed seed leaves the cart empty")

	require.NoError(t, c.Retry(context.Background()))

	st = c.Status()
	assert.True(t, st.Loaded)
	assert.NoError(t, st.Err)
	assert.Equal(t, 1, c.Len())
}

func TestCart_LoadWithoutSeeder(t *testing.T) {
	t.Parallel()

	c := newCart()
	require.ErrorIs(t, c.Load(context.Background()), cart.ErrNoSeeder)
	require.ErrorIs(t, c.Retry(context.Background()), cart.ErrNoSeeder)
	assert.Equal(t, cart.SeedStatus{}, c.Status())
}

func TestCart_StatusLoadingDuringFetch(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	ms := mocks.NewMockSeeder(t)
	ms.EXPECT().FetchCart(mock.Anything, 1).
		Run(func(context.Context, int) {
			close(started)
			<-release
		}).
		Return(nil, nil).Once()

	c := newCart(cart.WithSeeder(ms, 1))

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()

	<-started
	assert.True(t, c.Status().Loading)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Status().Loading)
	assert.True(t, c.Status().Loaded)
}
