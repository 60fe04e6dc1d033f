// Package locale хранит тексты слоя представления, разложенные по языкам.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Key - идентификатор текста
type Key string

const (
	ShoppingCompleted Key = "shopping_completed"
	MissingFields     Key = "missing_fields"
	UnknownReference  Key = "unknown_reference"
	UnknownStatus     Key = "unknown_status"
	InvalidRequest    Key = "invalid_request"
	ProductDeleted    Key = "product_deleted"
	ProductNotFound   Key = "product_not_found"
	InternalError     Key = "internal_error"
	LabelBought       Key = "label_bought"
	LabelBuy          Key = "label_buy"
	FilterAll         Key = "filter_all"
	FilterBought      Key = "filter_bought"
	FilterNotBought   Key = "filter_not_bought"
)

const (
	English = "en"
	Turkish = "tr"

	Default = English
)

// Messages - таблица текстов одного языка
type Messages map[Key]string

var tables = map[string]Messages{
	English: {
		ShoppingCompleted: "Shopping Completed!",
		MissingFields:     "Please select product name, market and category.",
		UnknownReference:  "Selected market or category does not exist.",
		UnknownStatus:     "Unknown purchase status filter.",
		InvalidRequest:    "Invalid request.",
		ProductDeleted:    "Product deleted!",
		ProductNotFound:   "Product not found.",
		InternalError:     "Something went wrong.",
		LabelBought:       "Bought",
		LabelBuy:          "Buy",
		FilterAll:         "All",
		FilterBought:      "Purchases",
		FilterNotBought:   "Not Purchased",
	},
	Turkish: {
		ShoppingCompleted: "Alışveriş Tamamlandı!",
		MissingFields:     "Lütfen ürün adı, market ve kategori seçin.",
		UnknownReference:  "Seçilen market veya kategori mevcut değil.",
		UnknownStatus:     "Bilinmeyen satın alma durumu filtresi.",
		InvalidRequest:    "Geçersiz istek.",
		ProductDeleted:    "Ürün silindi!",
		ProductNotFound:   "Ürün bulunamadı.",
		InternalError:     "Bir şeyler ters gitti.",
		LabelBought:       "Satın Alındı",
		LabelBuy:          "Satın Al",
		FilterAll:         "Tümü",
		FilterBought:      "Satın Alınanlar",
		FilterNotBought:   "Satın Alınmayanlar",
	},
}

// Supported сообщает, есть ли таблица для языка.
func Supported(tag string) bool {
	_, ok := tables[normalize(tag)]
	return ok
}

// Lookup возвращает таблицу языка; неизвестный язык даёт английскую.
func Lookup(tag string) Messages {
	if m, ok := tables[normalize(tag)]; ok {
		return m
	}
	return tables[Default]
}

// Text возвращает текст по ключу, при отсутствии перевода берёт английский.
func (m Messages) Text(key Key) string {
	if s, ok := m[key]; ok {
		return s
	}
	return tables[Default][key]
}

// matchOrder и matcher перечисляют языки в одном порядке: Match возвращает индекс.
var (
	matchOrder = []string{English, Turkish}
	matcher    = language.NewMatcher([]language.Tag{language.English, language.Turkish})
)

// FromAcceptLanguage выбирает поддерживаемый язык по заголовку Accept-Language с учётом q-весов.
func FromAcceptLanguage(header string) (string, bool) {
	parsed, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return "", false
	}

	// "*" не выбирает язык, им управляет APP_LOCALE
	tags := make([]language.Tag, 0, len(parsed))
	for _, t := range parsed {
		if t != language.Und {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return "", false
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "", false
	}

	return matchOrder[idx], true
}

// normalize сводит "tr-TR" и "TR" к "tr".
func normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	base, _, _ := strings.Cut(tag, "-")
	base, _, _ = strings.Cut(base, "_")
	return base
}
