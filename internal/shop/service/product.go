package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wattlecart/storefront/internal/shop/cache"
	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/media"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/pkg/idx"
	"github.com/wattlecart/storefront/pkg/slogx"
)

var (
	ErrProductNotFound    = errors.New("product_not_found")
	ErrNoFeaturedProducts = errors.New("no_featured_products")
)

const (
	// RecommendationCount is how many random products the recommendations
	// endpoint samples.
	RecommendationCount = 4

	// mediaFolder scopes uploaded product images on the image host.
	mediaFolder = "products"
)

// ProductService owns the catalog: persistent store, featured cache and the
// image-hosting side effects.
type ProductService struct {
	Store    store.Store
	Featured *cache.FeaturedCache
	Media    media.Service
}

// CreateProductInput carries the admin-supplied product fields. Image, when
// set, is an inline payload (data URI) that gets pushed to the image host.
type CreateProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	Image       string
	Category    string
	IsFeatured  bool
}

func (s *ProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx)
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.Store.Products().ListProductsByCategory(ctx, strings.TrimSpace(category))
}

// Recommendations returns a small random sample of the catalog.
func (s *ProductService) Recommendations(ctx context.Context) ([]domain.Product, error) {
	return s.Store.Products().SampleProducts(ctx, RecommendationCount)
}

// GetFeatured is the read-through path: cached list on a hit, otherwise query
// the store, populate the cache and return. ErrNoFeaturedProducts only when
// both the cache and the store come up empty.
func (s *ProductService) GetFeatured(ctx context.Context) ([]domain.Product, error) {
	if cached, ok, err := s.Featured.Get(ctx); err != nil {
		return nil, err
	} else if ok {
		return cached, nil
	}

	products, err := s.Store.Products().ListFeaturedProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoFeaturedProducts
	}

	if err := s.Featured.Set(ctx, products); err != nil {
		// Serving the store result matters more than priming the cache.
		slogx.FromContext(ctx).Warn("featured cache populate failed", "err", err)
	}
	return products, nil
}

// Create inserts a new product, uploading its image first when one was
// supplied.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	imageURL := ""
	if in.Image != "" {
		url, err := s.Media.Upload(ctx, mediaFolder, in.Image)
		if err != nil {
			return domain.Product{}, err
		}
		imageURL = url
	}

	p := domain.Product{
		ID:          idx.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		PriceCents:  in.PriceCents,
		ImageURL:    imageURL,
		Category:    strings.TrimSpace(in.Category),
		IsFeatured:  in.IsFeatured,
	}
	if err := s.Store.Products().CreateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}

	if p.IsFeatured {
		s.refreshFeaturedCache(ctx)
	}

	return s.Store.Products().GetProductByID(ctx, p.ID)
}

// Delete removes a product, then tries to clean up its hosted image. The
// image delete is best-effort: a failure is logged, never surfaced.
func (s *ProductService) Delete(ctx context.Context, productID string) error {
	p, err := s.Store.Products().GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.Store.Products().DeleteProduct(ctx, productID); err != nil {
		return err
	}

	if p.ImageURL != "" {
		publicID := media.PublicIDFromURL(p.ImageURL, mediaFolder)
		if err := s.Media.Delete(ctx, publicID); err != nil {
			slogx.FromContext(ctx).Warn("product image delete failed",
				"product_id", productID, "public_id", publicID, "err", err)
		}
	}

	if p.IsFeatured {
		s.refreshFeaturedCache(ctx)
	}

	return nil
}

// ToggleFeatured flips is_featured and, after the write lands, recomputes the
// featured cache so the next read sees the change.
func (s *ProductService) ToggleFeatured(ctx context.Context, productID string) (domain.Product, error) {
	p, err := s.Store.Products().GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, err
	}

	if err := s.Store.Products().SetProductFeatured(ctx, productID, !p.IsFeatured); err != nil {
		return domain.Product{}, err
	}

	s.refreshFeaturedCache(ctx)

	return s.Store.Products().GetProductByID(ctx, productID)
}

// refreshFeaturedCache recomputes the cached featured list from the store.
// Cache trouble is logged and swallowed so it never fails the triggering
// request.
func (s *ProductService) refreshFeaturedCache(ctx context.Context) {
	log := slogx.FromContext(ctx)

	products, err := s.Store.Products().ListFeaturedProducts(ctx)
	if err != nil {
		log.Error("featured cache refresh: store query failed", "err", err)
		return
	}
	if err := s.Featured.Set(ctx, products); err != nil {
		log.Error("featured cache refresh: cache write failed", "err", err)
		return
	}
	log.Debug("featured cache refreshed", "count", len(products))
}

// RefreshFeaturedCache is the exported hook used by the background refresher.
func (s *ProductService) RefreshFeaturedCache(ctx context.Context) {
	s.refreshFeaturedCache(ctx)
}
