package mockapi_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/storefront/internal/dummyjson"
	"github.com/donaldgifford/storefront/internal/mockapi"
	"github.com/donaldgifford/storefront/pkg/logger"
)

func newServer(t *testing.T, opts ...mockapi.Option) *mockapi.Server {
	t.Helper()
	srv, err := mockapi.New(append([]mockapi.Option{mockapi.WithLogger(logger.Discard())}, opts...)...)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	f, err := mockapi.LoadFixtures()
	require.NoError(t, err)
	assert.Len(t, f.Products, 30)
	assert.Len(t, f.Carts, 2)

	for i, p := range f.Products {
		assert.Equal(t, i+1, p.ID, "fixture ids are sequential")
		assert.NotEmpty(t, p.Title)
		assert.GreaterOrEqual(t, p.Price, 0.0)
	}
}

func TestServer_ListProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantFirst  int
		wantCount  int
	}{
		{name: "default limit", target: "/products", wantStatus: http.StatusOK, wantFirst: 1, wantCount: 30},
		{name: "first page", target: "/products?limit=10&skip=0", wantStatus: http.StatusOK, wantFirst: 1, wantCount: 10},
		{name: "third page", target: "/products?limit=10&skip=20", wantStatus: http.StatusOK, wantFirst: 21, wantCount: 10},
		{name: "partial last page", target: "/products?limit=8&skip=24", wantStatus: http.StatusOK, wantFirst: 25, wantCount: 6},
		{name: "skip past end", target: "/products?limit=10&skip=40", wantStatus: http.StatusOK, wantCount: 0},
		{name: "limit zero returns all", target: "/products?limit=0", wantStatus: http.StatusOK, wantFirst: 1, wantCount: 30},
		{name: "max int limit", target: "/products?limit=9223372036854775807&skip=1", wantStatus: http.StatusOK, wantFirst: 2, wantCount: 29},
		{name: "bad limit", target: "/products?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "negative skip", target: "/products?skip=-1", wantStatus: http.StatusBadRequest},
	}

	srv := newServer(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := get(t, srv.Handler(), tt.target)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"message"`)
				return
			}

			var resp dummyjson.ProductsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, 30, resp.Total)
			require.Len(t, resp.Products, tt.wantCount)
			assert.NotNil(t, resp.Products)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, resp.Products[0].ID)
			}
		})
	}
}

func TestServer_SearchProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		wantIDs []int
	}{
		{query: "red", wantIDs: []int{4, 5}},
		{query: "RED", wantIDs: []int{4, 5}},
		{query: "pepper", wantIDs: []int{25, 26}},
		{query: "eau", wantIDs: []int{7, 9, 10}},
		{query: "nothing-matches", wantIDs: []int{}},
	}

	srv := newServer(t)

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			rec := get(t, srv.Handler(), "/products/search?q="+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp dummyjson.ProductsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			got := make([]int, 0, len(resp.Products))
			for _, p := range resp.Products {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
			assert.Equal(t, len(tt.wantIDs), resp.Total)
		})
	}
}

func TestServer_GetCart(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	rec := get(t, srv.Handler(), "/carts/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var cart dummyjson.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Equal(t, 1, cart.ID)
	assert.Len(t, cart.Products, cart.TotalProducts)

	rec = get(t, srv.Handler(), "/carts/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Cart with id '99' not found"}`, rec.Body.String())

	rec = get(t, srv.Handler(), "/carts/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Operational(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	rec := get(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(t, srv.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_")

	rec = get(t, srv.Handler(), "/swagger/swagger.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi":"3.1.0"`)

	rec = get(t, srv.Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CustomFixtures(t *testing.T) {
	t.Parallel()

	srv := newServer(t, mockapi.WithFixtures(&mockapi.Fixtures{
		Products: []dummyjson.Product{{ID: 7, Title: "Only", Price: 1, Stock: 1}},
	}))

	rec := get(t, srv.Handler(), "/products")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = get(t, srv.Handler(), "/carts/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// The remote client and the mock server must agree on the wire contract.
func TestServer_ClientContract(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(newServer(t).Handler())
	t.Cleanup(ts.Close)

	client := dummyjson.NewClient(
		dummyjson.WithBaseURL(ts.URL),
		dummyjson.WithLogger(logger.Discard()),
	)
	ctx := context.Background()

	page, err := client.FetchPage(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, 21, page[0].ID)
	assert.Equal(t, 30, page[9].ID)

	page, err = client.FetchPage(ctx, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	found, err := client.SearchProducts(ctx, "lipstick")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Red Lipstick", found[0].Title)

	lines, err := client.FetchCart(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, lines)

	_, err = client.FetchCart(ctx, 404)
	require.Error(t, err)
	assert.True(t, dummyjson.IsNotFound(err))
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	hc := &http.Client{Timeout: 2 * time.Second}
	require.Eventually(t, func() bool {
		resp, err := hc.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
