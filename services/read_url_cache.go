package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// entries expire before the presigned URL does
const readURLTTL = presignTTL - 3*time.Minute

type ReadURLResolver interface {
	ReadURL(ctx context.Context, key string) (string, error)
}

// ReadURLCache hands out presigned read URLs of wardrobe photos and look
// images, presigning each key at most once per TTL.
type ReadURLCache struct {
	urls *cache.LoadableCache[string]
}

func NewRistrettoStore() (*ristretto_store.RistrettoStore, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	return ristretto_store.NewRistretto(ristrettoCache), nil
}

func NewReadURLCache(bucket ImageBucket) (*ReadURLCache, error) {
	ristrettoStore, err := NewRistrettoStore()
	if err != nil {
		return nil, err
	}
	load := func(ctx context.Context, key any) (string, []store.Option, error) {
		objectKey, ok := key.(string)
		if !ok {
			return "", nil, fmt.Errorf("read url cache: key %T is not a string", key)
		}
		url, err := bucket.PresignRead(ctx, objectKey)
		return url, []store.Option{store.WithExpiration(readURLTTL)}, err
	}
	return &ReadURLCache{
		urls: cache.NewLoadable[string](load, cache.New[string](ristrettoStore)),
	}, nil
}

func (c *ReadURLCache) ReadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return c.urls.Get(ctx, key)
}
