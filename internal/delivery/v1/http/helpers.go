package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/shopping-list/internal/domain"
	"github.com/DRSN-tech/shopping-list/internal/locale"
	"github.com/DRSN-tech/shopping-list/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ProductResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ShopID       int64  `json:"shop_id"`
	ShopName     string `json:"shop_name"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	IsBought     bool   `json:"is_bought"`
	Label        string `json:"label"` // "Bought" / "Buy" на языке запроса
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type ToggleResponse struct {
	Product       ProductResponse `json:"product"`
	Completed     bool            `json:"completed"`
	JustCompleted bool            `json:"just_completed"`
}

type StatusResponse struct {
	Total     int    `json:"total"`
	Bought    int    `json:"bought"`
	Completed bool   `json:"completed"`
	Celebrate bool   `json:"celebrate"`
	Banner    string `json:"banner,omitempty"`
}

type ReferenceResponse struct {
	Shops      []domain.Shop     `json:"shops"`
	Categories []domain.Category `json:"categories"`
	Statuses   []StatusOption    `json:"statuses"`
}

// StatusOption - значение параметра status и его подпись на языке запроса.
type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type addProductBody struct {
	Name       string `json:"name"`
	ShopID     int64  `json:"shop_id"`
	CategoryID int64  `json:"category_id"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse переводит ошибку в HTTP-код и локализованное сообщение.
func ToHTTPResponse(err error, msgs locale.Messages) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNameRequired),
		errors.Is(err, e.ErrShopRequired),
		errors.Is(err, e.ErrCategoryRequired):
		return http.StatusBadRequest, msgs.Text(locale.MissingFields)
	case errors.Is(err, e.ErrUnknownShop), errors.Is(err, e.ErrUnknownCategory):
		return http.StatusBadRequest, msgs.Text(locale.UnknownReference)
	case errors.Is(err, e.ErrUnknownStatus):
		return http.StatusBadRequest, msgs.Text(locale.UnknownStatus)
	case errors.Is(err, e.ErrValidation), errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, msgs.Text(locale.InvalidRequest)
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, msgs.Text(locale.ProductNotFound)
	default:
		return http.StatusInternalServerError, msgs.Text(locale.InternalError)
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := ToHTTPResponse(err, messagesFromCtx(r.Context()))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type ctxKey struct{}

// withLocale кладёт таблицу текстов в контекст запроса.
func withLocale(ctx context.Context, msgs locale.Messages) context.Context {
	return context.WithValue(ctx, ctxKey{}, msgs)
}

func messagesFromCtx(ctx context.Context) locale.Messages {
	if msgs, ok := ctx.Value(ctxKey{}).(locale.Messages); ok {
		return msgs
	}
	return locale.Lookup(locale.Default)
}

// resolveLocale: ?lang= важнее Accept-Language, иначе язык по умолчанию из конфигурации.
func resolveLocale(r *http.Request, fallback string) string {
	if lang := r.URL.Query().Get("lang"); lang != "" && locale.Supported(lang) {
		return lang
	}

	if lang, ok := locale.FromAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return lang
	}

	return fallback
}

func toProductResponse(p domain.Product, ref *domain.ReferenceData, msgs locale.Messages) ProductResponse {
	label := msgs.Text(locale.LabelBuy)
	if p.IsBought {
		label = msgs.Text(locale.LabelBought)
	}

	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		ShopID:       p.ShopID,
		ShopName:     ref.ShopName(p.ShopID),
		CategoryID:   p.CategoryID,
		CategoryName: ref.CategoryName(p.CategoryID),
		IsBought:     p.IsBought,
		Label:        label,
	}
}

var statusLabels = map[domain.Status]locale.Key{
	domain.StatusAll:       locale.FilterAll,
	domain.StatusBought:    locale.FilterBought,
	domain.StatusNotBought: locale.FilterNotBought,
}

func toStatusOptions(msgs locale.Messages) []StatusOption {
	statuses := domain.Statuses()
	res := make([]StatusOption, len(statuses))
	for i, st := range statuses {
		res[i] = StatusOption{Value: st.String(), Label: msgs.Text(statusLabels[st])}
	}

	return res
}

func toProductsResponse(products []domain.Product, ref *domain.ReferenceData, msgs locale.Messages) *ProductsResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = toProductResponse(p, ref, msgs)
	}

	return &ProductsResponse{Products: res}
}

// parseFilterCriteria собирает критерии из query: shop_id, category_id, status, name.
func parseFilterCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()

	var criteria domain.FilterCriteria

	shopID, err := parseOptionalID(q.Get("shop_id"))
	if err != nil {
		return criteria, err
	}
	criteria.ShopID = shopID

	categoryID, err := parseOptionalID(q.Get("category_id"))
	if err != nil {
		return criteria, err
	}
	criteria.CategoryID = categoryID

	status, err := domain.ParseStatus(q.Get("status"))
	if err != nil {
		return criteria, err
	}
	criteria.Status = status
	criteria.Name = strings.TrimSpace(q.Get("name"))

	return criteria, nil
}

func parseOptionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, e.Wrap(s, e.ValidationError(e.ErrInvalidID))
	}

	return &id, nil
}

func decodeAddProductBody(w http.ResponseWriter, r *http.Request) (*addProductBody, error) {
	const maxBodySize = 1 << 20

	var body addProductBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return &body, nil
}
