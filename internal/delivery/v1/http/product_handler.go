package http

import (
	"net/http"

	"github.com/DRSN-tech/shopping-list/internal/locale"
	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	listUsecase usecase.ShoppingListUC
	logger      logger.Logger
}

func NewProductHandler(listUsecase usecase.ShoppingListUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{listUsecase: listUsecase, logger: logger}
}

// addProduct добавляет позицию в список.
// POST /products {"name": "...", "shop_id": 1, "category_id": 3}
func (p *ProductHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeAddProductBody(w, r)
	if err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, r, err)
		return
	}

	product, err := p.listUsecase.Add(r.Context(), usecase.NewAddProductReq(body.Name, body.ShopID, body.CategoryID))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, r, err)
		return
	}

	msgs := messagesFromCtx(r.Context())
	WriteSuccess(w, http.StatusCreated, toProductResponse(*product, p.listUsecase.Reference(), msgs))
}

// listProducts возвращает отфильтрованное представление списка.
// GET /products?shop_id=&category_id=&status=all|bought|notBought&name=
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseFilterCriteria(r)
	if err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, r, err)
		return
	}

	products, err := p.listUsecase.Filter(r.Context(), criteria)
	if err != nil {
		p.logger.Errorf(err, "filter products")
		WriteError(w, r, err)
		return
	}

	msgs := messagesFromCtx(r.Context())
	WriteSuccess(w, http.StatusOK, toProductsResponse(products, p.listUsecase.Reference(), msgs))
}

// searchProducts - нечёткий поиск по названию, магазину и категории.
// GET /products/search?q=
func (p *ProductHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.listUsecase.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		p.logger.Errorf(err, "search products")
		WriteError(w, r, err)
		return
	}

	msgs := messagesFromCtx(r.Context())
	WriteSuccess(w, http.StatusOK, toProductsResponse(products, p.listUsecase.Reference(), msgs))
}

// toggleProduct переключает признак покупки.
// PATCH /products/{id}/toggle
func (p *ProductHandler) toggleProduct(w http.ResponseWriter, r *http.Request) {
	res, err := p.listUsecase.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, r, err)
		return
	}

	msgs := messagesFromCtx(r.Context())
	WriteSuccess(w, http.StatusOK, &ToggleResponse{
		Product:       toProductResponse(*res.Product, p.listUsecase.Reference(), msgs),
		Completed:     res.Completed,
		JustCompleted: res.JustCompleted,
	})
}

// deleteProduct удаляет позицию.
// DELETE /products/{id}
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := p.listUsecase.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, r, err)
		return
	}

	msgs := messagesFromCtx(r.Context())
	WriteSuccess(w, http.StatusOK, &MessageResponse{Message: msgs.Text(locale.ProductDeleted)})
}

// status отдаёт признак завершения покупок. Баннер и "конфетти" выводятся из одного флага.
// GET /status
func (p *ProductHandler) status(w http.ResponseWriter, r *http.Request) {
	st, err := p.listUsecase.Status(r.Context())
	if err != nil {
		p.logger.Errorf(err, "list status")
		WriteError(w, r, err)
		return
	}

	res := &StatusResponse{
		Total:     st.Total,
		Bought:    st.Bought,
		Completed: st.Completed,
		Celebrate: st.Completed,
	}
	if st.Completed {
		res.Banner = messagesFromCtx(r.Context()).Text(locale.ShoppingCompleted)
	}

	WriteSuccess(w, http.StatusOK, res)
}

// reference отдаёт справочники магазинов и категорий и подписи фильтра status.
// GET /reference
func (p *ProductHandler) reference(w http.ResponseWriter, r *http.Request) {
	ref := p.listUsecase.Reference()
	WriteSuccess(w, http.StatusOK, &ReferenceResponse{
		Shops:      ref.Shops(),
		Categories: ref.Categories(),
		Statuses:   toStatusOptions(messagesFromCtx(r.Context())),
	})
}
