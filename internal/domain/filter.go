package domain

import (
	"strings"

	"github.com/DRSN-tech/shopping-list/pkg/e"
)

// Status - фильтр по признаку покупки
type Status int

const (
	StatusAll Status = iota
	StatusBought
	StatusNotBought
)

// Statuses перечисляет значения фильтра в порядке показа.
func Statuses() []Status {
	return []Status{StatusAll, StatusBought, StatusNotBought}
}

// ParseStatus разбирает значение фильтра: "", "all", "bought", "notBought".
func ParseStatus(s string) (Status, error) {
	switch s {
	case "", "all":
		return StatusAll, nil
	case "bought":
		return StatusBought, nil
	case "notBought":
		return StatusNotBought, nil
	default:
		return StatusAll, e.ValidationError(e.ErrUnknownStatus)
	}
}

func (s Status) String() string {
	switch s {
	case StatusBought:
		return "bought"
	case StatusNotBought:
		return "notBought"
	default:
		return "all"
	}
}

// FilterCriteria описывает запрос на отфильтрованное представление списка.
// Нулевое значение пропускает все позиции.
type FilterCriteria struct {
	ShopID     *int64
	CategoryID *int64
	Status     Status
	Name       string
}

// Matches проверяет, подходит ли позиция под критерии.
func (c FilterCriteria) Matches(p Product) bool {
	if c.ShopID != nil && *c.ShopID != p.ShopID {
		return false
	}

	if c.CategoryID != nil && *c.CategoryID != p.CategoryID {
		return false
	}

	switch c.Status {
	case StatusBought:
		if !p.IsBought {
			return false
		}
	case StatusNotBought:
		if p.IsBought {
			return false
		}
	}

	if c.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(c.Name)) {
		return false
	}

	return true
}

// Filter возвращает подходящие позиции в исходном порядке, не изменяя входной срез.
func Filter(products []Product, c FilterCriteria) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			result = append(result, p)
		}
	}

	return result
}
