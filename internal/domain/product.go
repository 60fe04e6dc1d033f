package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Product описывает позицию списка покупок
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShopID     int64  `json:"shop_id"`
	CategoryID int64  `json:"category_id"`
	IsBought   bool   `json:"is_bought"`
}

// NewProduct создаёт ещё не купленную позицию с новым идентификатором.
func NewProduct(name string, shopID int64, categoryID int64) *Product {
	return &Product{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		ShopID:     shopID,
		CategoryID: categoryID,
		IsBought:   false,
	}
}

// Toggle переключает признак покупки.
func (p *Product) Toggle() {
	p.IsBought = !p.IsBought
}

// AllBought - true, если список не пуст и все позиции куплены.
func AllBought(products []Product) bool {
	if len(products) == 0 {
		return false
	}

	for _, p := range products {
		if !p.IsBought {
			return false
		}
	}

	return true
}
