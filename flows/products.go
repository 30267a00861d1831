package flows

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Product struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
}

type FindProductsOutput struct {
	Products []Product `json:"products"`
}

type ProductFinder interface {
	FindProduct(ctx context.Context, item string) (Product, error)
}

// PlaceholderProduct stands in for an item whose lookup failed.
func PlaceholderProduct(item string) Product {
	return Product{
		Name:     item,
		Price:    "Check price on " + item,
		URL:      SearchURL(item),
		ImageURL: PlaceholderProductImage,
	}
}

// FindProducts looks every item up concurrently. Results keep the order of
// req.Items and a failed lookup only replaces its own slot.
func (p *Pipeline) FindProducts(ctx context.Context, req FindProductsRequest) (*FindProductsOutput, error) {
	products := make([]Product, len(req.Items))
	var wg sync.WaitGroup
	for i, item := range req.Items {
		wg.Add(1)
		go func(index int, item string) {
			defer wg.Done()
			product, err := p.Products.FindProduct(ctx, item)
			if err != nil {
				p.logger().Warn("product lookup failed",
					zap.String("item", item),
					zap.Error(err),
				)
				products[index] = PlaceholderProduct(item)
				return
			}
			products[index] = product
		}(i, item)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &FindProductsOutput{Products: products}, nil
}
