package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/DRSN-tech/shopping-list/internal/domain"
	"github.com/DRSN-tech/shopping-list/pkg/e"
)

// ProductRepo хранит список позиций в памяти процесса с сохранением порядка вставки.
type ProductRepo struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{}
}

// Append добавляет позицию в конец списка. Повторный ID отклоняется.
func (r *ProductRepo) Append(_ context.Context, product *domain.Product) error {
	const op = "ProductRepo.Append"

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return e.Wrap(op, e.ValidationError(e.ErrInvalidID))
	}
	r.products = append(r.products, *product)

	return nil
}

// Toggle переключает признак покупки на месте и возвращает копию позиции.
func (r *ProductRepo) Toggle(_ context.Context, id string) (*domain.Product, error) {
	const op = "ProductRepo.Toggle"

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}
	r.products[i].Toggle()

	product := r.products[i]
	return &product, nil
}

// Delete удаляет позицию, сохраняя порядок остальных.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	const op = "ProductRepo.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return e.Wrap(op, e.ErrProductNotFound)
	}
	r.products = slices.Delete(r.products, i, i+1)

	return nil
}

func (r *ProductRepo) Get(_ context.Context, id string) (*domain.Product, error) {
	const op = "ProductRepo.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	product := r.products[i]
	return &product, nil
}

// List возвращает копию списка; изменения копии не затрагивают хранилище.
func (r *ProductRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.products), nil
}

func (r *ProductRepo) indexOf(id string) int {
	return slices.IndexFunc(r.products, func(p domain.Product) bool {
		return p.ID == id
	})
}
