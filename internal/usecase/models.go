package usecase

import (
	"time"

	"github.com/DRSN-tech/shopping-list/internal/domain"
)

// SHOPPING LIST USECASE

// AddProductReq - запрос на добавление позиции в список.
type AddProductReq struct {
	Name       string
	ShopID     int64
	CategoryID int64
}

// ToggleProductRes - результат переключения признака покупки.
type ToggleProductRes struct {
	Product       *domain.Product
	Completed     bool
	JustCompleted bool // список стал полностью купленным именно этим вызовом
}

// ListStatus - сводка по списку для слоя представления.
type ListStatus struct {
	Total     int
	Bought    int
	Completed bool
}

// EVENTS

// ChangeType - вид изменения списка
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeToggled ChangeType = "toggled"
	ChangeDeleted ChangeType = "deleted"
)

// ListChangedEvent - событие об изменении списка для внешних подписчиков.
type ListChangedEvent struct {
	Type          ChangeType     `json:"type"`
	Product       domain.Product `json:"product"`
	Completed     bool           `json:"completed"`
	JustCompleted bool           `json:"just_completed"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// MAPPERS

func NewAddProductReq(name string, shopID int64, categoryID int64) *AddProductReq {
	return &AddProductReq{
		Name:       name,
		ShopID:     shopID,
		CategoryID: categoryID,
	}
}

func NewToggleProductRes(product *domain.Product, completed bool, justCompleted bool) *ToggleProductRes {
	return &ToggleProductRes{
		Product:       product,
		Completed:     completed,
		JustCompleted: justCompleted,
	}
}

func NewListStatus(products []domain.Product) *ListStatus {
	bought := 0
	for _, p := range products {
		if p.IsBought {
			bought++
		}
	}

	return &ListStatus{
		Total:     len(products),
		Bought:    bought,
		Completed: domain.AllBought(products),
	}
}

func NewListChangedEvent(t ChangeType, product domain.Product, completed bool, justCompleted bool) *ListChangedEvent {
	return &ListChangedEvent{
		Type:          t,
		Product:       product,
		Completed:     completed,
		JustCompleted: justCompleted,
		OccurredAt:    time.Now().UTC(),
	}
}
