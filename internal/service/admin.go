package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"gabarolla-store/internal/domain"
	"gabarolla-store/internal/repository"
	"gabarolla-store/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaveOutcome distinguishes created from updated for user-facing messaging.
type SaveOutcome int

const (
	SaveCreated SaveOutcome = iota + 1
	SaveUpdated
)

// ProductAdmin orchestrates the admin product-management workflow: the
// catalog list cache, the single active form draft, and the save/delete/
// visibility mutations against the product and object stores.
//
// Admin gating happens at the transport layer; every route that reaches this
// controller has already passed the authenticated-admin check.
//
// The cache is invalidated after every successful mutation and re-fetched in
// full on the next read, so invalidation is idempotent and safe regardless of
// the completion order of independently triggered mutations.
type ProductAdmin struct {
	products repository.ProductRepository
	objects  storage.ObjectStore
	images   *ImageOptimizer
	logger   *zap.Logger

	defaultCategory string

	mu         sync.Mutex
	cached     []*domain.Product
	cacheValid bool
	state      FormState
	draft      Draft
}

// NewProductAdmin creates the admin controller. defaultCategory seeds the
// category field of new drafts.
func NewProductAdmin(
	products repository.ProductRepository,
	objects storage.ObjectStore,
	images *ImageOptimizer,
	defaultCategory string,
	logger *zap.Logger,
) *ProductAdmin {
	return &ProductAdmin{
		products:        products,
		objects:         objects,
		images:          images,
		defaultCategory: defaultCategory,
		logger:          logger,
	}
}

// Products returns the admin's view of the catalog, ordered by sort order.
// The list is fetched lazily and served from cache until invalidated. A
// failed fetch leaves the cache empty and surfaces a FetchError.
func (a *ProductAdmin) Products(ctx context.Context) ([]*domain.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.cacheValid {
		items, err := a.products.List(ctx)
		if err != nil {
			a.cached = nil
			a.logger.Error("Failed to load product list", zap.Error(err))
			return nil, &FetchError{Err: err}
		}
		a.cached = items
		a.cacheValid = true
	}

	out := make([]*domain.Product, len(a.cached))
	copy(out, a.cached)
	return out, nil
}

// Invalidate marks the cached list stale so the next read re-fetches.
func (a *ProductAdmin) Invalidate() {
	a.mu.Lock()
	a.cacheValid = false
	a.mu.Unlock()
}

// State returns the current form state.
func (a *ProductAdmin) State() FormState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Draft returns a snapshot of the active draft.
func (a *ProductAdmin) Draft() Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft
}

// StartCreate opens an empty draft. Any draft already open is replaced, and
// any pending image selection is cleared.
func (a *ProductAdmin) StartCreate() Draft {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.draft = Draft{Category: a.defaultCategory}
	a.state = FormCreating
	return a.draft
}

// StartEdit opens a draft seeded from the product's current fields,
// replacing any open draft. The image preview is the existing image URL.
func (a *ProductAdmin) StartEdit(ctx context.Context, id uuid.UUID) (Draft, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	product := a.cachedByID(id)
	if product == nil {
		found, err := a.products.FindByID(ctx, id)
		if err != nil {
			return Draft{}, &PersistError{Err: err}
		}
		product = found
	}

	editingID := product.ID
	a.draft = Draft{
		Name:      product.Name,
		Price:     product.Price,
		Category:  product.Category,
		EditingID: &editingID,
	}
	if product.ImageURL != nil {
		a.draft.ImagePreviewURL = *product.ImageURL
	}
	a.state = FormEditing
	return a.draft, nil
}

// SetFields updates the draft's text fields. Valid only while a form is open.
func (a *ProductAdmin) SetFields(name, price, category string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == FormClosed {
		return &ValidationError{Field: "form", Reason: "is not open"}
	}

	a.draft.Name = name
	a.draft.Price = price
	a.draft.Category = category
	return nil
}

// SelectImage attaches a new image file to the draft and regenerates the
// local preview. Valid only while a form is open.
func (a *ProductAdmin) SelectImage(filename string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == FormClosed {
		return &ValidationError{Field: "form", Reason: "is not open"}
	}
	if len(data) == 0 {
		return &ValidationError{Field: "image", Reason: "is empty"}
	}

	a.draft.selectImage(filename, data)
	return nil
}

// Cancel closes the form and discards the draft.
func (a *ProductAdmin) Cancel() {
	a.mu.Lock()
	a.draft = Draft{}
	a.state = FormClosed
	a.mu.Unlock()
}

// Save persists the active draft: validate, resolve the image (uploading a
// pending selection first), then insert or update. On success the cache is
// invalidated and the form closed. On any failure the draft stays open with
// the user's input intact.
//
// The upload and the persist are strictly sequential. If the persist fails
// after a successful upload the object is orphaned; there is no compensation.
func (a *ProductAdmin) Save(ctx context.Context) (SaveOutcome, error) {
	a.mu.Lock()
	if a.state == FormClosed {
		a.mu.Unlock()
		return 0, &ValidationError{Field: "form", Reason: "is not open"}
	}
	draft := a.draft
	a.mu.Unlock()

	// Rejected before any remote call.
	if strings.TrimSpace(draft.Name) == "" {
		return 0, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(draft.Price) == "" {
		return 0, &ValidationError{Field: "price", Reason: "must not be empty"}
	}

	imageURL, err := a.resolveImageURL(ctx, draft)
	if err != nil {
		return 0, err
	}

	outcome := SaveCreated
	now := time.Now()
	if draft.EditingID != nil {
		product := &domain.Product{
			ID:        *draft.EditingID,
			Name:      draft.Name,
			Price:     draft.Price,
			Category:  draft.Category,
			ImageURL:  imageURL,
			UpdatedAt: now,
		}
		if err := a.products.Update(ctx, product); err != nil {
			a.logger.Error("Failed to update product", zap.String("product_id", product.ID.String()), zap.Error(err))
			return 0, &PersistError{Err: err}
		}
		outcome = SaveUpdated
	} else {
		product := &domain.Product{
			ID:        uuid.New(),
			Name:      draft.Name,
			Price:     draft.Price,
			Category:  draft.Category,
			ImageURL:  imageURL,
			Visible:   true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := a.products.Create(ctx, product); err != nil {
			a.logger.Error("Failed to create product", zap.Error(err))
			return 0, &PersistError{Err: err}
		}
	}

	a.mu.Lock()
	a.cacheValid = false
	a.draft = Draft{}
	a.state = FormClosed
	a.mu.Unlock()

	a.logger.Info("Product saved",
		zap.Bool("created", outcome == SaveCreated),
		zap.String("name", draft.Name),
	)
	return outcome, nil
}

// resolveImageURL determines the image URL the persisted row should carry:
// a freshly uploaded object when a file is pending, the record's existing
// URL when editing without a new file, or nil for a new product without one.
func (a *ProductAdmin) resolveImageURL(ctx context.Context, draft Draft) (*string, error) {
	if draft.PendingImage != nil {
		optimized, err := a.images.Optimize(draft.PendingImage.Data)
		if err != nil {
			return nil, &UploadError{Err: err}
		}

		name := storage.UniqueName(draft.PendingImage.Filename)
		if err := a.objects.Put(ctx, name, bytes.NewReader(optimized)); err != nil {
			a.logger.Error("Failed to upload product image", zap.String("object", name), zap.Error(err))
			return nil, &UploadError{Err: err}
		}

		url := a.objects.PublicURL(name)
		return &url, nil
	}

	if draft.EditingID != nil {
		// Text-only edit: the existing image must not be lost.
		a.mu.Lock()
		cached := a.cachedByID(*draft.EditingID)
		a.mu.Unlock()
		if cached != nil {
			return cached.ImageURL, nil
		}

		existing, err := a.products.FindByID(ctx, *draft.EditingID)
		if err != nil {
			return nil, &PersistError{Err: err}
		}
		return existing.ImageURL, nil
	}

	return nil, nil
}

// Delete removes the product unconditionally; any confirmation is a view
// concern. The stored image object is not removed. On success the cache is
// invalidated; on failure the visible list stays as it was.
func (a *ProductAdmin) Delete(ctx context.Context, id uuid.UUID) error {
	if err := a.products.Delete(ctx, id); err != nil {
		a.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return &PersistError{Err: err}
	}

	a.Invalidate()
	a.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// SetVisible updates a product's storefront visibility by id, whether or not
// the product is present in the local cache. Idempotent.
func (a *ProductAdmin) SetVisible(ctx context.Context, id uuid.UUID, visible bool) error {
	if err := a.products.SetVisible(ctx, id, visible); err != nil {
		a.logger.Error("Failed to toggle product visibility",
			zap.String("product_id", id.String()),
			zap.Bool("visible", visible),
			zap.Error(err),
		)
		return &PersistError{Err: err}
	}

	a.Invalidate()
	return nil
}

// cachedByID looks a product up in the cached list. Callers hold a.mu.
func (a *ProductAdmin) cachedByID(id uuid.UUID) *domain.Product {
	if !a.cacheValid {
		return nil
	}
	for _, p := range a.cached {
		if p.ID == id {
			return p
		}
	}
	return nil
}
