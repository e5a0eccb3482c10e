package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"gabarolla-store/internal/domain"
	"gabarolla-store/internal/repository"
	"gabarolla-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory product repository for handler tests.
type fakeProductRepository struct {
	products map[uuid.UUID]*domain.Product
	nextSort int
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (f *fakeProductRepository) Create(ctx context.Context, product *domain.Product) error {
	f.nextSort++
	product.SortOrder = f.nextSort
	stored := *product
	f.products[product.ID] = &stored
	return nil
}

func (f *fakeProductRepository) Update(ctx context.Context, product *domain.Product) error {
	existing, ok := f.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	existing.Name = product.Name
	existing.Price = product.Price
	existing.Category = product.Category
	existing.ImageURL = product.ImageURL
	return nil
}

func (f *fakeProductRepository) SetVisible(ctx context.Context, id uuid.UUID, visible bool) error {
	existing, ok := f.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	existing.Visible = visible
	return nil
}

func (f *fakeProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(f.products))
	for _, p := range f.products {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeProductRepository) ListVisible(ctx context.Context) ([]*domain.Product, error) {
	all, _ := f.List(ctx)
	var out []*domain.Product
	for _, p := range all {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepository) seed(name, price string) *domain.Product {
	f.nextSort++
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Category:  "T-Shirts",
		Visible:   true,
		SortOrder: f.nextSort,
	}
	f.products[p.ID] = p
	return p
}

type fakeObjectStore struct{}

func (fakeObjectStore) Put(ctx context.Context, name string, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (fakeObjectStore) PublicURL(name string) string {
	return "https://cdn.example.com/" + name
}

func passthrough(next http.Handler) http.Handler { return next }

func newAdminRouter(repo *fakeProductRepository) *chi.Mux {
	admin := service.NewProductAdmin(repo, fakeObjectStore{}, service.NewImageOptimizer(), "T-Shirts", zap.NewNop())
	handler := NewAdminHandler(admin, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, passthrough, passthrough)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminList_ReturnsAllProductsInOrder(t *testing.T) {
	repo := newFakeProductRepository()
	first := repo.seed("Boné Verde", "25€")
	second := repo.seed("Camisola Azul", "30€")
	second.Visible = false
	router := newAdminRouter(repo)

	w := doJSON(t, router, "GET", "/api/admin/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var products []domain.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("hidden products must appear in the admin list, got %d items", len(products))
	}
	if products[0].ID != first.ID || products[1].ID != second.ID {
		t.Fatal("list not in sort order")
	}
}

func TestAdminDraftLifecycle_CreateProduct(t *testing.T) {
	repo := newFakeProductRepository()
	router := newAdminRouter(repo)

	w := doJSON(t, router, "POST", "/api/admin/products/draft", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start draft: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var draft DraftResponse
	json.NewDecoder(w.Body).Decode(&draft)
	if draft.State != "creating" || draft.Category != "T-Shirts" {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	w = doJSON(t, router, "PUT", "/api/admin/products/draft", DraftFieldsRequest{
		Name: "Hoodie Preto", Price: "45€", Category: "Hoodies",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set fields: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "POST", "/api/admin/products/draft/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var saved SaveResponse
	json.NewDecoder(w.Body).Decode(&saved)
	if !saved.Created || saved.Message != "Produto adicionado" {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	products, _ := repo.List(context.Background())
	if len(products) != 1 || products[0].Name != "Hoodie Preto" {
		t.Fatalf("product not persisted: %+v", products)
	}
}

func TestAdminDraftLifecycle_EditKeepsMessageDistinct(t *testing.T) {
	repo := newFakeProductRepository()
	seeded := repo.seed("Boné Verde", "25€")
	router := newAdminRouter(repo)

	id := seeded.ID.String()
	w := doJSON(t, router, "POST", "/api/admin/products/draft", StartDraftRequest{ProductID: &id})
	if w.Code != http.StatusOK {
		t.Fatalf("start edit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var draft DraftResponse
	json.NewDecoder(w.Body).Decode(&draft)
	if draft.State != "editing" || draft.Name != "Boné Verde" {
		t.Fatalf("unexpected edit draft: %+v", draft)
	}

	w = doJSON(t, router, "PUT", "/api/admin/products/draft", DraftFieldsRequest{
		Name: "Boné Verde Escuro", Price: "27€", Category: "Bonés",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set fields: %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/admin/products/draft/save", nil)
	var saved SaveResponse
	json.NewDecoder(w.Body).Decode(&saved)
	if saved.Created || saved.Message != "Produto actualizado" {
		t.Fatalf("unexpected save response: %+v", saved)
	}
}

func TestAdminSave_EmptyNameRejected(t *testing.T) {
	repo := newFakeProductRepository()
	router := newAdminRouter(repo)

	doJSON(t, router, "POST", "/api/admin/products/draft", nil)
	doJSON(t, router, "PUT", "/api/admin/products/draft", DraftFieldsRequest{Name: "  ", Price: "10€"})

	w := doJSON(t, router, "POST", "/api/admin/products/draft/save", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if len(repo.products) != 0 {
		t.Fatal("nothing may be persisted for an invalid draft")
	}
}

func TestAdminSelectImage_Multipart(t *testing.T) {
	repo := newFakeProductRepository()
	router := newAdminRouter(repo)

	doJSON(t, router, "POST", "/api/admin/products/draft", nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "foto.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("fake image bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/admin/products/draft/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var draft DraftResponse
	json.NewDecoder(w.Body).Decode(&draft)
	if !draft.PendingImage {
		t.Fatal("pending image not recorded")
	}
	if !strings.HasPrefix(draft.ImagePreviewURL, "data:") {
		t.Fatalf("expected data URI preview, got %q", draft.ImagePreviewURL)
	}
}

func TestAdminCancel_ClosesForm(t *testing.T) {
	repo := newFakeProductRepository()
	router := newAdminRouter(repo)

	doJSON(t, router, "POST", "/api/admin/products/draft", nil)
	w := doJSON(t, router, "DELETE", "/api/admin/products/draft", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Saving after cancel fails: no form open.
	w = doJSON(t, router, "POST", "/api/admin/products/draft/save", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 after cancel, got %d", w.Code)
	}
}

func TestAdminDelete_UnknownIDIs404(t *testing.T) {
	repo := newFakeProductRepository()
	router := newAdminRouter(repo)

	w := doJSON(t, router, "DELETE", "/api/admin/products/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "DELETE", "/api/admin/products/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestAdminVisibility_Toggle(t *testing.T) {
	repo := newFakeProductRepository()
	seeded := repo.seed("Boné Verde", "25€")
	router := newAdminRouter(repo)

	hide := false
	w := doJSON(t, router, "PUT", "/api/admin/products/"+seeded.ID.String()+"/visibility", VisibilityRequest{Visible: &hide})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.products[seeded.ID].Visible {
		t.Fatal("product still visible")
	}

	// Missing body field is a validation error, not a silent default.
	w = doJSON(t, router, "PUT", "/api/admin/products/"+seeded.ID.String()+"/visibility", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing visible field, got %d", w.Code)
	}
}

var errDatabaseDown = errors.New("database down")

type failingProductRepository struct{ fakeProductRepository }

func (f *failingProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return nil, errDatabaseDown
}

func TestAdminList_FetchFailureIs500(t *testing.T) {
	repo := &failingProductRepository{*newFakeProductRepository()}
	admin := service.NewProductAdmin(repo, fakeObjectStore{}, service.NewImageOptimizer(), "T-Shirts", zap.NewNop())
	handler := NewAdminHandler(admin, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, passthrough, passthrough)

	w := doJSON(t, router, "GET", "/api/admin/products", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
