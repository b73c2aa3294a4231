package postgres

import (
	"context"
	"errors"
	"fmt"
	"smartShop/domain"
	"strings"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// List returns products matching filter in display order.
func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("category IN ?", filter.Categories)
	}
	if strings.TrimSpace(filter.Query) != "" {
		q = whereTextMatches(q, filter.Query)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStockOnly {
		q = q.Where("stock > 0")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var products []domain.Product
	if err := q.Order("row_index ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// FindSimilar returns the products sharing category with the given one, excluding it.
func (r *ProductRepository) FindSimilar(ctx context.Context, category, excludeID string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("category = ? AND id <> ?", category, excludeID).
		Order("row_index ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find similar products: %w", err)
	}

	return products, nil
}

// Search matches query case-insensitively against name, brand, category and description.
func (r *ProductRepository) Search(ctx context.Context, query string, categories []string) ([]domain.Product, error) {
	return r.List(ctx, domain.ProductFilter{Query: query, Categories: categories})
}

// TopRated returns up to limit products by descending rating, optionally within categories.
func (r *ProductRepository) TopRated(ctx context.Context, categories []string, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Product{})
	if len(categories) > 0 {
		q = q.Where("category IN ?", categories)
	}

	var products []domain.Product
	if err := q.Order("rating DESC").Order("row_index ASC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find top rated products: %w", err)
	}

	return products, nil
}

// Cheapest returns up to limit products by ascending price. An empty category means the whole
// catalog and a nil maxPrice means no ceiling.
func (r *ProductRepository) Cheapest(ctx context.Context, category string, maxPrice *float64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if maxPrice != nil {
		q = q.Where("price <= ?", *maxPrice)
	}

	var products []domain.Product
	if err := q.Order("price ASC").Order("row_index ASC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find cheapest products: %w", err)
	}

	return products, nil
}

// CheaperThan returns up to limit products of category priced strictly below price, ascending.
func (r *ProductRepository) CheaperThan(ctx context.Context, category string, price float64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("category = ? AND price < ?", category, price).
		Order("price ASC").
		Order("row_index ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cheaper products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) PriceStats(ctx context.Context, category string) (domain.PriceStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.PriceStats{}, fmt.Errorf("context error: %w", err)
	}

	var row struct {
		MinPrice *float64
		MaxPrice *float64
		AvgPrice *float64
	}
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Select("MIN(price) AS min_price, MAX(price) AS max_price, AVG(price) AS avg_price").
		Where("category = ?", category).
		Scan(&row).Error
	if err != nil {
		return domain.PriceStats{}, fmt.Errorf("failed to aggregate prices: %w", err)
	}

	stats := domain.PriceStats{}
	if row.MinPrice != nil {
		stats.Min = *row.MinPrice
	}
	if row.MaxPrice != nil {
		stats.Max = *row.MaxPrice
	}
	if row.AvgPrice != nil {
		stats.Avg = *row.AvgPrice
	}

	return stats, nil
}

func (r *ProductRepository) CategorySummaries(ctx context.Context) ([]domain.CategorySummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CategorySummary
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Select("category, COUNT(*) AS product_count, MIN(price) AS min_price, MAX(price) AS max_price").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize categories: %w", err)
	}

	return rows, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var n int64
	if err := r.DB.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return n, nil
}

func whereTextMatches(q *gorm.DB, query string) *gorm.DB {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	return q.Where(
		"(LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ?)",
		like, like, like, like,
	)
}
