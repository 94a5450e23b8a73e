package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"inventory-service/internal/domain"
	"inventory-service/internal/store"
)

// defaultLowStockThreshold is used when the low-stock endpoint is called
// without an explicit threshold.
const defaultLowStockThreshold = 10

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	categoryStore store.CategoryStorer
	productStore  store.ProductStorer
	ledger        store.TransactionStorer
	reporter      store.InventoryReporter
	validate      *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(cs store.CategoryStorer, ps store.ProductStorer, ts store.TransactionStorer, ir store.InventoryReporter) *HTTPHandler {
	return &HTTPHandler{
		categoryStore: cs,
		productStore:  ps,
		ledger:        ts,
		reporter:      ir,
		validate:      validator.New(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR: Failed to encode JSON response: %v", err)
		}
	}
}

// --- Category Handlers ---

// CategoryCreateInput defines the expected input for creating a category.
type CategoryCreateInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty"`
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 && validationErrs[0].Tag() == "required" {
			respondWithError(w, http.StatusBadRequest, "Category name is required")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	category := &domain.Category{
		Name:        input.Name,
		Description: input.Description,
	}

	created, err := h.categoryStore.CreateCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			respondWithError(w, http.StatusBadRequest, "Category already exists")
			return
		}
		log.Printf("ERROR: CreateCategory store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.ListCategories(r.Context())
	if err != nil {
		log.Printf("ERROR: ListCategories store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (h *HTTPHandler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	category, err := h.categoryStore.GetCategoryByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("ERROR: GetCategoryByID store operation for ID %s failed: %v", categoryID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category")
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

// CategoryUpdateInput defines the expected input for updating a category.
// Absent fields keep their current value.
type CategoryUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")

	var input CategoryUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	category, err := h.categoryStore.GetCategoryByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("ERROR: UpdateCategory lookup for ID %s failed: %v", categoryID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	updated, err := h.categoryStore.UpdateCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			respondWithError(w, http.StatusBadRequest, "Category name already exists")
			return
		}
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("ERROR: UpdateCategory store operation for ID %s failed: %v", categoryID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	err := h.categoryStore.DeleteCategory(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		if errors.Is(err, store.ErrCategoryHasProducts) {
			respondWithError(w, http.StatusBadRequest, "Cannot delete category with associated products")
			return
		}
		log.Printf("ERROR: DeleteCategory store operation for ID %s failed: %v", categoryID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

// --- Product Handlers ---

// ProductCreateInput defines the expected input for creating a product.
// Price is a pointer so that an explicit zero passes the required check.
type ProductCreateInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"omitempty"`
	SKU         string   `json:"sku" validate:"required,max=100"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	CategoryID  string   `json:"category_id" validate:"required"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: name, sku, price, category_id")
		return
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		SKU:         input.SKU,
		Price:       *input.Price,
		CategoryID:  input.CategoryID,
	}

	created, err := h.productStore.CreateProduct(r.Context(), product)
	if err != nil {
		if errors.Is(err, store.ErrProductSKUExists) {
			respondWithError(w, http.StatusBadRequest, "Product with this SKU already exists")
			return
		}
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("ERROR: CreateProduct store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productStore.ListProducts(r.Context())
	if err != nil {
		log.Printf("ERROR: ListProducts store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	product, err := h.productStore.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("ERROR: GetProductByID store operation for ID %s failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

// ProductUpdateInput defines the expected input for updating a product.
// Absent fields keep their current value; SKU cannot be changed.
type ProductUpdateInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	CategoryID  *string  `json:"category_id" validate:"omitempty,min=1"`
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var input ProductUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("ERROR: UpdateProduct lookup for ID %s failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}

	updated, err := h.productStore.UpdateProduct(r.Context(), product)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("ERROR: UpdateProduct store operation for ID %s failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	err := h.productStore.DeleteProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("ERROR: DeleteProduct store operation for ID %s failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// --- Transaction Handlers ---

// TransactionCreateInput defines the expected input for recording a stock
// movement. Quantity is a pointer so an explicit zero reaches the store's
// validation and gets the specific quantity error rather than a generic
// missing-field one.
type TransactionCreateInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

func (h *HTTPHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var input TransactionCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: product_id, type, quantity")
		return
	}

	transaction := &domain.Transaction{
		ProductID: input.ProductID,
		Type:      input.Type,
		Quantity:  *input.Quantity,
		Reason:    input.Reason,
		Notes:     input.Notes,
	}

	recorded, err := h.ledger.RecordTransaction(r.Context(), transaction)
	if err != nil {
		var stockErr *store.InsufficientStockError
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			respondWithError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, store.ErrInvalidTransactionType):
			respondWithError(w, http.StatusBadRequest, "Invalid transaction type. Use ENTRY or EXIT")
		case errors.Is(err, store.ErrInvalidQuantity):
			respondWithError(w, http.StatusBadRequest, "Quantity must be greater than 0")
		case errors.As(err, &stockErr):
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient inventory. Available: %d", stockErr.Available))
		default:
			log.Printf("ERROR: RecordTransaction store operation failed: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create transaction")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, recorded)
}

func (h *HTTPHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.ledger.ListTransactions(r.Context())
	if err != nil {
		log.Printf("ERROR: ListTransactions store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}
	respondWithJSON(w, http.StatusOK, transactions)
}

func (h *HTTPHandler) GetTransactionByID(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	transaction, err := h.ledger.GetTransactionByID(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			respondWithError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Printf("ERROR: GetTransactionByID store operation for ID %s failed: %v", transactionID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve transaction")
		return
	}
	respondWithJSON(w, http.StatusOK, transaction)
}

func (h *HTTPHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	err := h.ledger.DeleteTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			respondWithError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Printf("ERROR: DeleteTransaction store operation for ID %s failed: %v", transactionID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

// --- Inventory Report Handlers ---

func (h *HTTPHandler) GetInventoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reporter.GetInventoryStats(r.Context())
	if err != nil {
		log.Printf("ERROR: GetInventoryStats store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute inventory stats")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) GetLowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold := defaultLowStockThreshold
	if thresholdStr := r.URL.Query().Get("threshold"); thresholdStr != "" {
		parsed, err := strconv.Atoi(thresholdStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid threshold value")
			return
		}
		threshold = parsed
	}

	products, err := h.reporter.GetLowStockProducts(r.Context(), threshold)
	if err != nil {
		log.Printf("ERROR: GetLowStockProducts store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve low stock products")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"threshold": threshold,
		"count":     len(products),
		"products":  products,
	})
}

func (h *HTTPHandler) GetInventorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporter.GetInventorySummary(r.Context())
	if err != nil {
		log.Printf("ERROR: GetInventorySummary store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute inventory summary")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) GetTransactionsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporter.GetTransactionsSummary(r.Context())
	if err != nil {
		log.Printf("ERROR: GetTransactionsSummary store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute transactions summary")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Route("/{categoryId}", func(r chi.Router) {
			r.Get("/", h.GetCategoryByID)
			r.Put("/", h.UpdateCategory)
			r.Delete("/", h.DeleteCategory)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProductByID)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})

	r.Route("/api/transactions", func(r chi.Router) {
		r.Post("/", h.CreateTransaction)
		r.Get("/", h.ListTransactions)
		r.Route("/{transactionId}", func(r chi.Router) {
			r.Get("/", h.GetTransactionByID)
			r.Delete("/", h.DeleteTransaction)
		})
	})

	r.Route("/api/inventory", func(r chi.Router) {
		r.Get("/stats", h.GetInventoryStats)
		r.Get("/low-stock", h.GetLowStockProducts)
		r.Get("/summary", h.GetInventorySummary)
		r.Get("/transactions-summary", h.GetTransactionsSummary)
	})
}
