package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makeoverapi/flows"
)

var priceRule = regexp.MustCompile(`^\$(\d+\.\d{2})$`)

func TestMockProductFinder(t *testing.T) {
	finder := NewMockProductFinder(42)

	product, err := finder.FindProduct(context.Background(), "white leather sneakers")
	require.NoError(t, err)
	assert.Equal(t, "White Leather Sneakers", product.Name)
	assert.Equal(t, "https://google.com/search?q=white+leather+sneakers", product.URL)
	assert.Equal(t, flows.PlaceholderProductImage, product.ImageURL)
	assert.Regexp(t, priceRule, product.Price)
}

func TestProperty_MockPricesInRange(t *testing.T) {
	properties := gopter.NewProperties(nil)
	low := decimal.NewFromInt(20)
	high := decimal.NewFromInt(120)

	properties.Property("price is between $20 and $120", prop.ForAll(
		func(seed int64) bool {
			product, err := NewMockProductFinder(seed).FindProduct(context.Background(), "scarf")
			if err != nil {
				return false
			}
			match := priceRule.FindStringSubmatch(product.Price)
			if match == nil {
				return false
			}
			price := decimal.RequireFromString(match[1])
			return price.GreaterThanOrEqual(low) && price.LessThan(high)
		},
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMockProductFinderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockProductFinder(1).FindProduct(ctx, "scarf")
	assert.ErrorIs(t, err, context.Canceled)
}

const shopPage = `<html><body>
<div class="results">
  <div class="product-card">
    <a href="/p/123"><img src="/img/123.jpg"></a>
    <span class="product-name"> Classic Denim Jacket </span>
    <span class="price">$ 59.90</span>
  </div>
  <div class="product-card">
    <span class="product-name">Second</span>
  </div>
</div>
</body></html>`

func TestShopSearchFinder(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, shopPage)
	}))
	defer server.Close()

	finder := NewShopSearchFinder(server.URL + "/search?q=%s")
	product, err := finder.FindProduct(context.Background(), "blue denim jacket")
	require.NoError(t, err)

	assert.Equal(t, "blue denim jacket", query)
	assert.Equal(t, "Classic Denim Jacket", product.Name)
	assert.Equal(t, "$ 59.90", product.Price)
	assert.Equal(t, server.URL+"/p/123", product.URL)
	assert.Equal(t, server.URL+"/img/123.jpg", product.ImageURL)
}

func TestShopSearchFinderNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>Nothing found</p></body></html>")
	}))
	defer server.Close()

	_, err := NewShopSearchFinder(server.URL + "/search?q=%s").FindProduct(context.Background(), "scarf")
	assert.ErrorIs(t, err, errNoProduct)
}

func TestShopSearchFinderStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewShopSearchFinder(server.URL + "/search?q=%s").FindProduct(context.Background(), "scarf")
	assert.Error(t, err)
}
