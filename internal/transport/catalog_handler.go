package transport

import (
	"net/http"

	"gabarolla-store/internal/domain"
	"gabarolla-store/internal/middleware"
	"gabarolla-store/internal/repository"
	"gabarolla-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest carries the storefront cart for the WhatsApp checkout.
type CheckoutRequest struct {
	Items []service.CartItem `json:"items" validate:"required,dive"`
}

// CheckoutResponse returns the deep-link the storefront opens to place the
// order.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// CatalogHandler serves the public storefront: visible products and the
// WhatsApp checkout link. No authentication.
type CatalogHandler struct {
	products repository.ProductRepository
	checkout *service.Checkout
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products repository.ProductRepository, checkout *service.Checkout, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{products: products, checkout: checkout, logger: logger}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter)
		}
		r.Get("/api/catalog", h.List)
		r.Post("/api/checkout/whatsapp", h.Checkout)
	})
}

// List returns only visible products, in sort order. Hidden products never
// leave the server.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListVisible(r.Context())
	if err != nil {
		h.logger.Error("Failed to list catalog", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "erro ao carregar o catálogo")
		return
	}

	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Checkout builds the WhatsApp order link for the submitted cart.
func (h *CatalogHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := h.checkout.OrderLink(req.Items)
	if err != nil {
		if service.IsValidation(err) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to build checkout link", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "erro ao preparar a encomenda")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CheckoutResponse{URL: link})
}
