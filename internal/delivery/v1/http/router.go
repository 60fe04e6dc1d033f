package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/shopping-list/internal/locale"
	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	router        *chi.Mux
	logger        logger.Logger
	defaultLocale string
}

func NewRouter(router *chi.Mux, logger logger.Logger, defaultLocale string) *Router {
	return &Router{router: router, logger: logger, defaultLocale: defaultLocale}
}

func (r *Router) Init(listUC usecase.ShoppingListUC) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Recoverer)
	r.router.Use(r.requestLogger)
	r.router.Use(r.localeResolver)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(listUC, r.logger)
		registerProductRoutes(v1, prHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Get("/reference", prHandler.reference)
	router.Get("/status", prHandler.status)

	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.addProduct)
		pr.Get("/search", prHandler.searchProducts)
		pr.Patch("/{id}/toggle", prHandler.toggleProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
	})
}

// localeResolver выбирает язык текстов для запроса.
func (r *Router) localeResolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		msgs := locale.Lookup(resolveLocale(req, r.defaultLocale))
		next.ServeHTTP(w, req.WithContext(withLocale(req.Context(), msgs)))
	})
}

func (r *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		r.logger.Infof("%s %s %d %s request_id=%s",
			req.Method, req.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(req.Context()))
	})
}
