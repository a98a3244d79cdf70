package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/foodcourt-labs/order-platform/internal/cache"
	apperrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/models"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
)

type ProductService interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	cache       cache.Cache
	cacheTTL    time.Duration
}

func NewProductService(productRepo repository.ProductRepository, productCache cache.Cache, cacheTTL time.Duration) ProductService {
	return &productService{productRepo: productRepo, cache: productCache, cacheTTL: cacheTTL}
}

// GetProductByID reads through the redis cache; the catalog changes rarely.
func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, strconv.FormatInt(id, 10))

	if s.cache != nil {
		var cached models.Product

		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to get product").WithError(err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, product, s.cacheTTL)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]models.Product, error) {

	if s.cache != nil {
		var cached []models.Product

		if hit, err := s.cache.Get(ctx, cache.ProductListKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to list products").WithError(err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cache.ProductListKey, products, s.cacheTTL)
	}

	return products, nil
}
