package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"makeoverapi/flows"
	"makeoverapi/languageutil"
)

var errNoProduct = errors.New("no product card found")

// MockProductFinder invents a price in [$20, $120) and links to a search.
type MockProductFinder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockProductFinder(seed int64) *MockProductFinder {
	return &MockProductFinder{rnd: rand.New(rand.NewSource(seed))}
}

func (f *MockProductFinder) FindProduct(ctx context.Context, item string) (flows.Product, error) {
	if err := ctx.Err(); err != nil {
		return flows.Product{}, err
	}
	f.mu.Lock()
	cents := 2000 + f.rnd.Int63n(10000)
	f.mu.Unlock()

	return flows.Product{
		Name:     languageutil.Title(item),
		Price:    "$" + decimal.New(cents, -2).StringFixed(2),
		URL:      flows.SearchURL(item),
		ImageURL: flows.PlaceholderProductImage,
	}, nil
}

type ShopSelectors struct {
	Card  string
	Name  string
	Price string
	Link  string
	Image string
}

func DefaultShopSelectors() ShopSelectors {
	return ShopSelectors{
		Card:  "[data-product], .product-card, .product",
		Name:  "[data-product-name], .product-name, .title",
		Price: "[data-product-price], .product-price, .price",
		Link:  "a[href]",
		Image: "img[src]",
	}
}

// ShopSearchFinder scrapes the first product card of a shop search page.
// SearchURL holds one %s for the escaped item.
type ShopSearchFinder struct {
	SearchURL string
	Selectors ShopSelectors
	Client    *http.Client
}

func NewShopSearchFinder(searchURL string) *ShopSearchFinder {
	return &ShopSearchFinder{
		SearchURL: searchURL,
		Selectors: DefaultShopSelectors(),
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *ShopSearchFinder) FindProduct(ctx context.Context, item string) (flows.Product, error) {
	target := fmt.Sprintf(f.SearchURL, url.QueryEscape(item))
	base, err := url.Parse(target)
	if err != nil {
		return flows.Product{}, fmt.Errorf("invalid shop search url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return flows.Product{}, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "text/html")

	resp, err := f.Client.Do(req)
	if err != nil {
		return flows.Product{}, fmt.Errorf("failed to get response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return flows.Product{}, fmt.Errorf("shop search status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return flows.Product{}, err
	}
	card := doc.Find(f.Selectors.Card).First()
	if card.Length() == 0 {
		return flows.Product{}, errNoProduct
	}

	product := flows.PlaceholderProduct(item)
	if name := strings.TrimSpace(card.Find(f.Selectors.Name).First().Text()); name != "" {
		product.Name = name
	}
	if price := strings.Join(strings.Fields(card.Find(f.Selectors.Price).First().Text()), " "); price != "" {
		product.Price = price
	}
	if href, ok := card.Find(f.Selectors.Link).First().Attr("href"); ok {
		if link, err := base.Parse(href); err == nil {
			product.URL = link.String()
		}
	}
	if src, ok := card.Find(f.Selectors.Image).First().Attr("src"); ok {
		if image, err := base.Parse(src); err == nil {
			product.ImageURL = image.String()
		}
	}
	return product, nil
}
