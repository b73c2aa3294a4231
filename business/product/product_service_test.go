package product

import (
	"context"
	"testing"

	"smartShop/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRepo struct {
	filters []domain.ProductFilter
}

func (r *recordingRepo) FindByID(ctx context.Context, id string) (domain.Product, error) {
	if id == "LAP1001" {
		return domain.Product{ID: id}, nil
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (r *recordingRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.filters = append(r.filters, filter)
	return []domain.Product{}, nil
}

type users map[string]domain.UserProfile

func (u users) FindByID(ctx context.Context, id string) (domain.UserProfile, error) {
	p, ok := u[id]
	if !ok {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	return p, nil
}

func TestListProductsRestrictsToPreferences(t *testing.T) {
	repo := &recordingRepo{}
	svc := NewProductService(repo, users{
		"U001": {ID: "U001", PreferredCategories: []string{"laptop", "speaker"}},
		"U002": {ID: "U002"},
	})
	ctx := context.Background()

	_, err := svc.ListProducts(ctx, domain.ProductFilter{Query: "aero"}, "U001")
	require.NoError(t, err)
	_, err = svc.ListProducts(ctx, domain.ProductFilter{}, "U002")
	require.NoError(t, err)
	_, err = svc.ListProducts(ctx, domain.ProductFilter{}, "ghost")
	require.NoError(t, err)

	require.Len(t, repo.filters, 3)
	assert.Equal(t, []string{"laptop", "speaker"}, repo.filters[0].Categories)
	assert.Equal(t, "aero", repo.filters[0].Query)
	assert.Equal(t, 100, repo.filters[0].Limit)
	assert.Empty(t, repo.filters[1].Categories)
	assert.Empty(t, repo.filters[2].Categories)
}

func TestListProductsRejectsInvertedRange(t *testing.T) {
	lo, hi := 500.0, 100.0
	_, err := NewProductService(&recordingRepo{}, users{}).ListProducts(context.Background(), domain.ProductFilter{MinPrice: &lo, MaxPrice: &hi}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestGetProductByID(t *testing.T) {
	svc := NewProductService(&recordingRepo{}, users{})

	p, err := svc.GetProductByID(context.Background(), "LAP1001")
	require.NoError(t, err)
	assert.Equal(t, "LAP1001", p.ID)

	_, err = svc.GetProductByID(context.Background(), "NOPE1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.GetProductByID(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
