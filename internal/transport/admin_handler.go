package transport

import (
	"errors"
	"io"
	"net/http"

	"gabarolla-store/internal/domain"
	"gabarolla-store/internal/middleware"
	"gabarolla-store/internal/repository"
	"gabarolla-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Image uploads larger than this are rejected before reading the body.
const maxImageUploadBytes = 10 << 20

// StartDraftRequest opens the form: empty body starts a create, a product id
// starts an edit of that product.
type StartDraftRequest struct {
	ProductID *string `json:"product_id,omitempty" validate:"omitempty,uuid"`
}

// DraftFieldsRequest carries the form's text fields. Emptiness is legal here;
// the save operation is where non-empty name/price is enforced.
type DraftFieldsRequest struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

// VisibilityRequest toggles a product's storefront visibility.
type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// DraftResponse mirrors the controller's form state for the admin view.
type DraftResponse struct {
	State           string  `json:"state"`
	Name            string  `json:"name"`
	Price           string  `json:"price"`
	Category        string  `json:"category"`
	EditingID       *string `json:"editing_id,omitempty"`
	ImagePreviewURL string  `json:"image_preview_url,omitempty"`
	PendingImage    bool    `json:"pending_image"`
}

// SaveResponse reports the save outcome with its user-facing message.
type SaveResponse struct {
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// AdminHandler exposes the product admin controller over REST intents.
type AdminHandler struct {
	admin  *service.ProductAdmin
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *service.ProductAdmin, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// RegisterRoutes registers the admin routes behind the auth + admin gates.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/visibility", h.SetVisibility)

		r.Route("/draft", func(r chi.Router) {
			r.Post("/", h.StartDraft)
			r.Put("/", h.UpdateDraftFields)
			r.Post("/image", h.SelectImage)
			r.Post("/save", h.Save)
			r.Delete("/", h.CancelDraft)
		})
	})
}

// List returns the full catalog, ordered by sort order, hidden rows included.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.admin.Products(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "erro ao carregar produtos")
		return
	}

	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// StartDraft opens the form in create mode, or edit mode when a product id
// is supplied. An already open draft is replaced.
func (h *AdminHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	var req StartDraftRequest
	if r.ContentLength > 0 {
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
				middleware.RespondWithValidationErrors(w, validationErrors)
				return
			}
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if req.ProductID == nil {
		draft := h.admin.StartCreate()
		middleware.RespondWithJSON(w, http.StatusOK, draftResponse(draft, h.admin.State()))
		return
	}

	id, err := uuid.Parse(*req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	draft, err := h.admin.StartEdit(r.Context(), id)
	if err != nil {
		h.respondOperationError(w, err, "erro ao abrir o produto")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(draft, h.admin.State()))
}

// UpdateDraftFields writes the form's text fields into the draft.
func (h *AdminHandler) UpdateDraftFields(w http.ResponseWriter, r *http.Request) {
	var req DraftFieldsRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.admin.SetFields(req.Name, req.Price, req.Category); err != nil {
		h.respondOperationError(w, err, "erro ao actualizar o formulário")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(h.admin.Draft(), h.admin.State()))
}

// SelectImage attaches a multipart image file to the open draft.
func (h *AdminHandler) SelectImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image file")
		return
	}

	if err := h.admin.SelectImage(header.Filename, data); err != nil {
		h.respondOperationError(w, err, "erro ao seleccionar a imagem")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, draftResponse(h.admin.Draft(), h.admin.State()))
}

// Save persists the open draft. The draft survives a failed save so the
// admin's input is not lost.
func (h *AdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.admin.Save(r.Context())
	if err != nil {
		h.respondOperationError(w, err, "erro ao guardar o produto")
		return
	}

	resp := SaveResponse{Created: outcome == service.SaveCreated, Message: "Produto actualizado"}
	if outcome == service.SaveCreated {
		resp.Message = "Produto adicionado"
	}
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// CancelDraft closes the form and discards the draft.
func (h *AdminHandler) CancelDraft(w http.ResponseWriter, r *http.Request) {
	h.admin.Cancel()
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"state": service.FormClosed.String()})
}

// Delete removes a product by id.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.admin.Delete(r.Context(), id); err != nil {
		h.respondOperationError(w, err, "erro ao remover o produto")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Produto removido"})
}

// SetVisibility updates only the visible flag of a product.
func (h *AdminHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req VisibilityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.admin.SetVisible(r.Context(), id, *req.Visible); err != nil {
		h.respondOperationError(w, err, "erro ao actualizar a visibilidade")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"visible": *req.Visible})
}

// respondOperationError maps the controller's error taxonomy onto HTTP
// statuses with a short human-readable message.
func (h *AdminHandler) respondOperationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case service.IsValidation(err):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "produto não encontrado")
	case service.IsUpload(err):
		h.logger.Error("Image upload failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "erro ao carregar a imagem")
	default:
		h.logger.Error("Admin operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func draftResponse(draft service.Draft, state service.FormState) DraftResponse {
	resp := DraftResponse{
		State:           state.String(),
		Name:            draft.Name,
		Price:           draft.Price,
		Category:        draft.Category,
		ImagePreviewURL: draft.ImagePreviewURL,
		PendingImage:    draft.PendingImage != nil,
	}
	if draft.EditingID != nil {
		id := draft.EditingID.String()
		resp.EditingID = &id
	}
	return resp
}
