package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryStore store.CategoryStore, logger *slog.Logger) *CategoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CategoryHandler")
	}

	return &CategoryHandler{
		categoryStore: categoryStore,
		logger:        logger.With(slog.String("component", "category_handler")),
	}
}

// ListCategories handles GET /categories requests, returning the
// caller's own categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	categories, err := h.categoryStore.ListByCreator(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CollectionResponse{
		Success: true,
		Count:   len(categories),
		Data:    categories,
	})
}

// GetCategory handles GET /categories/{id} requests.
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	_, categoryID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categoryStore.GetByID(r.Context(), categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Success: true,
		Data:    category,
	})
}

// CreateCategory handles POST /categories requests.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	category, err := domain.NewCategory(userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	category.Description = req.Description
	category.Icon = req.Icon
	if req.Color != "" {
		category.Color = req.Color
	}

	if err := category.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.categoryStore.Create(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DataResponse{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}

// UpdateCategory handles PUT /categories/{id} requests. Only the
// creator may change a category.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	category, err := h.categoryStore.GetByID(r.Context(), categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if category.CreatedBy != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not authorized to modify this category")
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	category.UpdatedAt = time.Now().UTC()

	if err := category.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.categoryStore.Update(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Success: true,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// DeleteCategory handles DELETE /categories/{id} requests. Tasks
// referencing the category are detached, not deleted.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categoryStore.GetByID(r.Context(), categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if category.CreatedBy != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not authorized to modify this category")
		return
	}

	if err := h.categoryStore.Delete(r.Context(), categoryID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Success: true,
		Message: "Category deleted successfully",
		Data:    nil,
	})
}
