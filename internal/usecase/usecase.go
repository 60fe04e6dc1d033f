package usecase

import (
	"context"

	"github.com/DRSN-tech/shopping-list/internal/domain"
)

type ShoppingListUC interface {
	Add(ctx context.Context, req *AddProductReq) (*domain.Product, error)
	Toggle(ctx context.Context, id string) (*ToggleProductRes, error)
	Delete(ctx context.Context, id string) error
	Filter(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Status(ctx context.Context) (*ListStatus, error)
	Reference() *domain.ReferenceData
}
