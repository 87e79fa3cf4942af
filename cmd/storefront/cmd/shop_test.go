package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/storefront/internal/catalog"
	"github.com/donaldgifford/storefront/internal/config"
	"github.com/donaldgifford/storefront/internal/mockapi"
	"github.com/donaldgifford/storefront/pkg/logger"
)

func newMockAPI(t *testing.T) string {
	t.Helper()
	srv, err := mockapi.New(mockapi.WithLogger(logger.Discard()))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func newTestSession(t *testing.T, cfg *config.Config, script string) (*shopSession, *bytes.Buffer) {
	t.Helper()
	log := logger.Discard()
	client := newClient(cfg, log)

	ctrl := catalog.NewController(client,
		catalog.WithLogger(log),
		catalog.WithPageSize(cfg.Catalog.PageSize),
		catalog.WithDebounce(cfg.Catalog.SearchDebounce),
	)
	t.Cleanup(ctrl.Close)

	var out bytes.Buffer
	s := newShopSession(cfg, ctrl, newCart(cfg, client, log), log, strings.NewReader(script), &out)
	return s, &out
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = newMockAPI(t)
	cfg.API.RateLimit.PerSecond = 1000
	cfg.API.RateLimit.Burst = 100
	cfg.Catalog.SearchDebounce = 10 * time.Millisecond
	return cfg
}

func TestShopSession(t *testing.T) {
	t.Parallel()

	script := strings.Join([]string{
		"add 4",
		"+ 4",
		"+ 4",
		"- 4",
		"search red",
		"more",
		"clear",
		"fav 2",
		"favs",
		"inc 4",
		"dec 16",
		"qty 23 0",
		"rm 8",
		"bogus",
		"cart",
		"quit",
	}, "\n")

	s, out := newTestSession(t, testConfig(t), script)
	require.NoError(t, s.run(context.Background()))

	got := map[int]int{}
	for _, it := range s.cart.Items() {
		got[it.ID] = it.Quantity
	}
	assert.Equal(t, map[int]int{4: 4, 16: 5}, got)
	assert.Equal(t, 4, s.pickers[4].Value(), "picker follows the cart line")

	st := s.ctrl.State()
	assert.Empty(t, st.Term)
	assert.Equal(t, 1, st.Page)
	assert.Len(t, st.Products, 10)
	assert.Equal(t, []int{2}, st.Favorites)

	text := out.String()
	assert.Contains(t, text, "Red Lipstick is already in the cart (quantity 2)")
	assert.Contains(t, text, `Results for "red": 2 products`)
	assert.Contains(t, text, "Nothing more to load while a search is active.")
	assert.Contains(t, text, "Favorites: [2]")
	assert.Contains(t, text, `Unknown command "bogus"`)
	assert.Contains(t, text, "Delivery:")
}

func TestShopSession_PickerBounds(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Quantity.Max = 2

	s, out := newTestSession(t, cfg, "add 1\n- 1\n+ 1\n+ 1\n")
	require.NoError(t, s.run(context.Background()))

	assert.Contains(t, out.String(), "Added Essence Mascara Lash Princess to the cart.")
	assert.Contains(t, out.String(), "Quantity stays within 1..2.")
	assert.Equal(t, 2, s.pickers[1].Value())

	for _, it := range s.cart.Items() {
		if it.ID == 1 {
			assert.Equal(t, 2, it.Quantity)
		}
	}
}

func TestShopSession_CartSeedFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Cart.ID = 99

	s, out := newTestSession(t, cfg, "retry\ncart\n")
	require.NoError(t, s.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Could not load your cart")
	assert.Contains(t, text, "Still could not load your cart")
	assert.Contains(t, text, "Your cart is empty.")
	require.Error(t, s.cart.Status().Err)
	assert.Zero(t, s.cart.Len())
}

func TestRootCommands(t *testing.T) {
	apiURL := newMockAPI(t)

	itemsPath := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(itemsPath, []byte(`[
		{"id": 5, "name": "Red Nail Polish", "price": 8.99, "quantity": 2},
		{"id": 5, "name": "Duplicate Polish", "price": 1, "quantity": 1},
		{"id": 7, "name": "Chanel Coco Noir", "price": 129.99, "quantity": 0}
	]`), 0o600))

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr string
	}{
		{
			name: "products list",
			args: []string{"products", "list", "--page", "2", "--pages", "2"},
			want: []string{"Page 3, 20 products", "Kiwi"},
		},
		{
			name: "products search",
			args: []string{"products", "search", "pepper"},
			want: []string{"Green Bell Pepper", "Green Chili Pepper"},
		},
		{
			name: "cart show",
			args: []string{"cart", "show", "--id", "2"},
			want: []string{"Annibale Colombo Sofa", "Juice", "Total:"},
		},
		{
			name:    "cart show from items",
			args:    []string{"cart", "show", "--items", itemsPath},
			want:    []string{"Red Nail Polish", "1 pc", "Total:"},
			notWant: []string{"Duplicate Polish", "Chanel Coco Noir", "Annibale Colombo Sofa"},
		},
		{
			name: "version",
			args: []string{"version"},
			want: []string{"storefront dev"},
		},
		{
			name:    "cart show missing items file",
			args:    []string{"cart", "show", "--items", filepath.Join(t.TempDir(), "none.json")},
			wantErr: "reading line items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetArgs(append([]string{"--api", apiURL, "--quiet", "--output", "table"}, tt.args...))

			err := rootCmd.Execute()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Knoll S...", truncate("Knoll Saarinen Executive", 10))
}
