package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventory-service/internal/domain"
	"inventory-service/internal/store"
)

// --- Store mocks ---

type MockCategoryStorer struct {
	mock.Mock
}

func (m *MockCategoryStorer) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	var categories []domain.Category
	if arg0 := args.Get(0); arg0 != nil {
		categories = arg0.([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryStorer) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) DeleteCategory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductStorer struct {
	mock.Mock
}

func (m *MockProductStorer) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductStorer) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTransactionStorer struct {
	mock.Mock
}

func (m *MockTransactionStorer) RecordTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionStorer) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionStorer) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	var transactions []domain.Transaction
	if arg0 := args.Get(0); arg0 != nil {
		transactions = arg0.([]domain.Transaction)
	}
	return transactions, args.Error(1)
}

func (m *MockTransactionStorer) DeleteTransaction(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInventoryReporter struct {
	mock.Mock
}

func (m *MockInventoryReporter) GetInventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryStats), args.Error(1)
}

func (m *MockInventoryReporter) GetLowStockProducts(ctx context.Context, threshold int) ([]domain.LowStockProduct, error) {
	args := m.Called(ctx, threshold)
	var products []domain.LowStockProduct
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.LowStockProduct)
	}
	return products, args.Error(1)
}

func (m *MockInventoryReporter) GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventorySummary), args.Error(1)
}

func (m *MockInventoryReporter) GetTransactionsSummary(ctx context.Context) (*domain.TransactionsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionsSummary), args.Error(1)
}

// testServer bundles the mocks with an httptest server over the real router.
type testServer struct {
	categories   *MockCategoryStorer
	products     *MockProductStorer
	transactions *MockTransactionStorer
	reporter     *MockInventoryReporter
	server       *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		categories:   new(MockCategoryStorer),
		products:     new(MockProductStorer),
		transactions: new(MockTransactionStorer),
		reporter:     new(MockInventoryReporter),
	}
	handler := NewHTTPHandler(ts.categories, ts.products, ts.transactions, ts.reporter)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	ts.server = httptest.NewServer(router)
	t.Cleanup(ts.server.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()
	return errResp.Error
}

// --- Category handler tests ---

func TestHTTPHandler_CreateCategory_Success(t *testing.T) {
	ts := newTestServer(t)

	now := time.Now().Truncate(time.Millisecond)
	expected := &domain.Category{
		ID:          "cat-1",
		Name:        "Electronics",
		Description: "Devices",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ts.categories.On("CreateCategory", mock.Anything, mock.AnythingOfType("*domain.Category")).
		Return(expected, nil).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/categories", map[string]string{
		"name":        "Electronics",
		"description": "Devices",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "cat-1", created.ID)
	assert.Equal(t, "Electronics", created.Name)

	ts.categories.AssertExpectations(t)
}

func TestHTTPHandler_CreateCategory_MissingName(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/categories", map[string]string{
		"description": "no name",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Category name is required", decodeError(t, resp))

	ts.categories.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

func TestHTTPHandler_CreateCategory_NameTooLong(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/categories", map[string]string{
		"name": strings.Repeat("x", 300),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp), "Validation failed")

	ts.categories.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

func TestHTTPHandler_CreateCategory_DuplicateName(t *testing.T) {
	ts := newTestServer(t)

	ts.categories.On("CreateCategory", mock.Anything, mock.AnythingOfType("*domain.Category")).
		Return(nil, store.ErrCategoryNameExists).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/categories", map[string]string{
		"name": "Electronics",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Category already exists", decodeError(t, resp))

	ts.categories.AssertExpectations(t)
}

func TestHTTPHandler_UpdateCategory_Success(t *testing.T) {
	ts := newTestServer(t)

	existing := &domain.Category{ID: "cat-1", Name: "Electronics", Description: "Devices"}
	updated := &domain.Category{ID: "cat-1", Name: "Gadgets", Description: "Devices"}
	ts.categories.On("GetCategoryByID", mock.Anything, "cat-1").Return(existing, nil).Once()
	ts.categories.On("UpdateCategory", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "Gadgets" && c.Description == "Devices"
	})).Return(updated, nil).Once()

	resp := doJSON(t, http.MethodPut, ts.server.URL+"/api/categories/cat-1", map[string]string{
		"name": "Gadgets",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, "Gadgets", got.Name)
	assert.Equal(t, "Devices", got.Description, "Absent fields keep their current value")

	ts.categories.AssertExpectations(t)
}

func TestHTTPHandler_UpdateCategory_DuplicateName(t *testing.T) {
	ts := newTestServer(t)

	existing := &domain.Category{ID: "cat-2", Name: "Groceries"}
	ts.categories.On("GetCategoryByID", mock.Anything, "cat-2").Return(existing, nil).Once()
	ts.categories.On("UpdateCategory", mock.Anything, mock.AnythingOfType("*domain.Category")).
		Return(nil, store.ErrCategoryNameExists).Once()

	resp := doJSON(t, http.MethodPut, ts.server.URL+"/api/categories/cat-2", map[string]string{
		"name": "Electronics",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Category name already exists", decodeError(t, resp))

	ts.categories.AssertExpectations(t)
}

func TestHTTPHandler_DeleteCategory_HasProducts(t *testing.T) {
	ts := newTestServer(t)

	ts.categories.On("DeleteCategory", mock.Anything, "cat-1").
		Return(store.ErrCategoryHasProducts).Once()

	resp := doJSON(t, http.MethodDelete, ts.server.URL+"/api/categories/cat-1", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot delete category with associated products", decodeError(t, resp))

	ts.categories.AssertExpectations(t)
}

func TestHTTPHandler_DeleteCategory_Success(t *testing.T) {
	ts := newTestServer(t)

	ts.categories.On("DeleteCategory", mock.Anything, "cat-1").Return(nil).Once()

	resp := doJSON(t, http.MethodDelete, ts.server.URL+"/api/categories/cat-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	ts.categories.AssertExpectations(t)
}

// --- Product handler tests ---

func TestHTTPHandler_CreateProduct_Success(t *testing.T) {
	ts := newTestServer(t)

	now := time.Now().Truncate(time.Millisecond)
	expected := &domain.Product{
		ID:         "prod-1",
		Name:       "Laptop",
		SKU:        "LAPTOP001",
		Price:      999.99,
		CategoryID: "cat-1",
		Inventory:  &domain.Inventory{ID: "inv-1", ProductID: "prod-1", Quantity: 0, LastUpdated: now},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	ts.products.On("CreateProduct", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(expected, nil).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/products", map[string]interface{}{
		"name":        "Laptop",
		"sku":         "LAPTOP001",
		"price":       999.99,
		"category_id": "cat-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotNil(t, created.Inventory)
	assert.Equal(t, 0, created.Inventory.Quantity, "New product should start with zero stock")

	ts.products.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_DuplicateSKU(t *testing.T) {
	ts := newTestServer(t)

	ts.products.On("CreateProduct", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(nil, store.ErrProductSKUExists).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/products", map[string]interface{}{
		"name":        "Laptop",
		"sku":         "LAPTOP001",
		"price":       999.99,
		"category_id": "cat-1",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Product with this SKU already exists", decodeError(t, resp))

	ts.products.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_CategoryNotFound(t *testing.T) {
	ts := newTestServer(t)

	ts.products.On("CreateProduct", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(nil, store.ErrCategoryNotFound).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/products", map[string]interface{}{
		"name":        "Laptop",
		"sku":         "LAPTOP001",
		"price":       999.99,
		"category_id": "missing",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Category not found", decodeError(t, resp))

	ts.products.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/products", map[string]interface{}{
		"name": "Laptop",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	ts.products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestHTTPHandler_CreateProduct_ZeroPriceAllowed(t *testing.T) {
	ts := newTestServer(t)

	expected := &domain.Product{ID: "prod-1", Name: "Sample", SKU: "SAMPLE001", Price: 0, CategoryID: "cat-1"}
	ts.products.On("CreateProduct", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(expected, nil).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/products", map[string]interface{}{
		"name":        "Sample",
		"sku":         "SAMPLE001",
		"price":       0,
		"category_id": "cat-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	ts.products.AssertExpectations(t)
}

func TestHTTPHandler_UpdateProduct_KeepsSKU(t *testing.T) {
	ts := newTestServer(t)

	existing := &domain.Product{
		ID: "prod-1", Name: "Laptop", SKU: "LAPTOP001", Price: 999.99, CategoryID: "cat-1",
	}
	updated := &domain.Product{
		ID: "prod-1", Name: "Laptop", SKU: "LAPTOP001", Price: 799.99, CategoryID: "cat-1",
	}
	ts.products.On("GetProductByID", mock.Anything, "prod-1").Return(existing, nil).Once()
	ts.products.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.SKU == "LAPTOP001" && p.Price == 799.99
	})).Return(updated, nil).Once()

	// A sku field in the payload is ignored: the business key never changes.
	resp := doJSON(t, http.MethodPut, ts.server.URL+"/api/products/prod-1", map[string]interface{}{
		"sku":   "OTHER999",
		"price": 799.99,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, "LAPTOP001", got.SKU)
	assert.Equal(t, 799.99, got.Price)

	ts.products.AssertExpectations(t)
}

func TestHTTPHandler_UpdateProduct_CategoryNotFound(t *testing.T) {
	ts := newTestServer(t)

	existing := &domain.Product{
		ID: "prod-1", Name: "Laptop", SKU: "LAPTOP001", Price: 999.99, CategoryID: "cat-1",
	}
	ts.products.On("GetProductByID", mock.Anything, "prod-1").Return(existing, nil).Once()
	ts.products.On("UpdateProduct", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(nil, store.ErrCategoryNotFound).Once()

	resp := doJSON(t, http.MethodPut, ts.server.URL+"/api/products/prod-1", map[string]interface{}{
		"category_id": "missing",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Category not found", decodeError(t, resp))

	ts.products.AssertExpectations(t)
}

// --- Transaction handler tests ---

func TestHTTPHandler_CreateTransaction_Entry(t *testing.T) {
	ts := newTestServer(t)

	now := time.Now().Truncate(time.Millisecond)
	expected := &domain.Transaction{
		ID:        "tx-1",
		ProductID: "prod-1",
		Type:      domain.TransactionEntry,
		Quantity:  10,
		Reason:    "restock",
		CreatedAt: now,
		UpdatedAt: now,
	}
	ts.transactions.On("RecordTransaction", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Return(expected, nil).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/transactions", map[string]interface{}{
		"product_id": "prod-1",
		"type":       "ENTRY",
		"quantity":   10,
		"reason":     "restock",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "tx-1", created.ID)
	assert.Equal(t, 10, created.Quantity)

	ts.transactions.AssertExpectations(t)
}

func TestHTTPHandler_CreateTransaction_InsufficientStock(t *testing.T) {
	ts := newTestServer(t)

	ts.transactions.On("RecordTransaction", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Return(nil, &store.InsufficientStockError{Available: 10}).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/transactions", map[string]interface{}{
		"product_id": "prod-1",
		"type":       "EXIT",
		"quantity":   15,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient inventory. Available: 10", decodeError(t, resp))

	ts.transactions.AssertExpectations(t)
}

func TestHTTPHandler_CreateTransaction_InvalidType(t *testing.T) {
	ts := newTestServer(t)

	ts.transactions.On("RecordTransaction", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Return(nil, store.ErrInvalidTransactionType).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/transactions", map[string]interface{}{
		"product_id": "prod-1",
		"type":       "TRANSFER",
		"quantity":   5,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid transaction type. Use ENTRY or EXIT", decodeError(t, resp))

	ts.transactions.AssertExpectations(t)
}

func TestHTTPHandler_CreateTransaction_ProductNotFound(t *testing.T) {
	ts := newTestServer(t)

	ts.transactions.On("RecordTransaction", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Return(nil, store.ErrProductNotFound).Once()

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/transactions", map[string]interface{}{
		"product_id": "missing",
		"type":       "ENTRY",
		"quantity":   5,
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found", decodeError(t, resp))

	ts.transactions.AssertExpectations(t)
}

func TestHTTPHandler_CreateTransaction_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.server.URL+"/api/transactions", map[string]interface{}{
		"product_id": "prod-1",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	ts.transactions.AssertNotCalled(t, "RecordTransaction", mock.Anything, mock.Anything)
}

func TestHTTPHandler_ListTransactions(t *testing.T) {
	ts := newTestServer(t)

	now := time.Now()
	ts.transactions.On("ListTransactions", mock.Anything).Return([]domain.Transaction{
		{ID: "tx-2", ProductID: "prod-1", Type: "EXIT", Quantity: 3, CreatedAt: now},
		{ID: "tx-1", ProductID: "prod-1", Type: "ENTRY", Quantity: 10, CreatedAt: now.Add(-time.Hour)},
	}, nil).Once()

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/api/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []domain.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	require.Len(t, listed, 2)
	assert.Equal(t, "tx-2", listed[0].ID, "Transactions should come back newest first")

	ts.transactions.AssertExpectations(t)
}

// --- Report handler tests ---

func TestHTTPHandler_GetInventoryStats(t *testing.T) {
	ts := newTestServer(t)

	ts.reporter.On("GetInventoryStats", mock.Anything).Return(&domain.InventoryStats{
		TotalProducts: 2,
		TotalQuantity: 5,
		TotalPrice:    40.00,
		Categories: []domain.CategoryStats{
			{ID: "cat-1", Name: "Electronics", ProductCount: 2, TotalQuantity: 5},
		},
	}, nil).Once()

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/api/inventory/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats domain.InventoryStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	resp.Body.Close()
	assert.Equal(t, 5, stats.TotalQuantity)
	assert.Equal(t, 40.00, stats.TotalPrice)

	ts.reporter.AssertExpectations(t)
}

func TestHTTPHandler_GetLowStockProducts_DefaultThreshold(t *testing.T) {
	ts := newTestServer(t)

	ts.reporter.On("GetLowStockProducts", mock.Anything, 10).Return([]domain.LowStockProduct{
		{ID: "prod-1", Name: "Cable", SKU: "CABLE001", Quantity: 2, Price: 10.00, Category: "Electronics"},
	}, nil).Once()

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/api/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Threshold int                      `json:"threshold"`
		Count     int                      `json:"count"`
		Products  []domain.LowStockProduct `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	assert.Equal(t, 10, payload.Threshold)
	assert.Equal(t, 1, payload.Count)
	require.Len(t, payload.Products, 1)

	ts.reporter.AssertExpectations(t)
}

func TestHTTPHandler_GetLowStockProducts_CustomThreshold(t *testing.T) {
	ts := newTestServer(t)

	ts.reporter.On("GetLowStockProducts", mock.Anything, 5).Return([]domain.LowStockProduct{}, nil).Once()

	resp := doJSON(t, http.MethodGet, ts.server.URL+"/api/inventory/low-stock?threshold=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	ts.reporter.AssertExpectations(t)
}

func TestHTTPHandler_GetLowStockProducts_BadThreshold(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/inventory/low-stock?threshold=%s", ts.server.URL, "abc"), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	ts.reporter.AssertNotCalled(t, "GetLowStockProducts", mock.Anything, mock.Anything)
}
