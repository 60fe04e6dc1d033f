package domain

// Category описывает категорию товара из справочника
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewCategory(id int64, name string) *Category {
	return &Category{
		ID:   id,
		Name: name,
	}
}

// Shop описывает магазин из справочника
type Shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewShop(id int64, name string) *Shop {
	return &Shop{
		ID:   id,
		Name: name,
	}
}
