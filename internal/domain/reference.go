package domain

// ReferenceData - неизменяемые справочники магазинов и категорий.
// Заполняется один раз при старте и дальше только читается.
type ReferenceData struct {
	shops      []Shop
	categories []Category
	shopIdx    map[int64]int
	catIdx     map[int64]int
}

func NewReferenceData(shops []Shop, categories []Category) *ReferenceData {
	rd := &ReferenceData{
		shops:      append([]Shop(nil), shops...),
		categories: append([]Category(nil), categories...),
		shopIdx:    make(map[int64]int, len(shops)),
		catIdx:     make(map[int64]int, len(categories)),
	}

	for i, s := range rd.shops {
		rd.shopIdx[s.ID] = i
	}
	for i, c := range rd.categories {
		rd.catIdx[c.ID] = i
	}

	return rd
}

// DefaultReferenceData возвращает стандартные справочники приложения.
func DefaultReferenceData() *ReferenceData {
	return NewReferenceData(
		[]Shop{
			*NewShop(1, "Migros"),
			*NewShop(2, "Bim"),
			*NewShop(3, "Toyzz Shop"),
		},
		[]Category{
			*NewCategory(1, "Electronic"),
			*NewCategory(2, "Toy"),
			*NewCategory(3, "Delicatessen"),
		},
	)
}

// Shops возвращает копию справочника магазинов в исходном порядке.
func (r *ReferenceData) Shops() []Shop {
	return append([]Shop(nil), r.shops...)
}

// Categories возвращает копию справочника категорий в исходном порядке.
func (r *ReferenceData) Categories() []Category {
	return append([]Category(nil), r.categories...)
}

func (r *ReferenceData) HasShop(id int64) bool {
	_, ok := r.shopIdx[id]
	return ok
}

func (r *ReferenceData) HasCategory(id int64) bool {
	_, ok := r.catIdx[id]
	return ok
}

// ShopName возвращает имя магазина или пустую строку.
func (r *ReferenceData) ShopName(id int64) string {
	if i, ok := r.shopIdx[id]; ok {
		return r.shops[i].Name
	}
	return ""
}

// CategoryName возвращает имя категории или пустую строку.
func (r *ReferenceData) CategoryName(id int64) string {
	if i, ok := r.catIdx[id]; ok {
		return r.categories[i].Name
	}
	return ""
}
