package usecase

import (
	"context"

	"github.com/DRSN-tech/shopping-list/internal/domain"
)

// ProductRepository хранит упорядоченный список позиций.
type ProductRepository interface {
	Append(ctx context.Context, product *domain.Product) error
	Toggle(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}
