// Package handler contains the HTTP request handlers. Handlers parse the
// request, call the service layer, and write the response; no business
// rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/sweet-shop/internal/auth"
	"github.com/sakif/sweet-shop/internal/model"
	"github.com/sakif/sweet-shop/internal/service"
)

// SweetHandler exposes the inventory operations over HTTP.
type SweetHandler struct {
	sweets *service.SweetService
	logger *slog.Logger
}

// NewSweetHandler creates a SweetHandler.
func NewSweetHandler(sweets *service.SweetService, logger *slog.Logger) *SweetHandler {
	return &SweetHandler{sweets: sweets, logger: logger}
}

type createSweetRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
}

// updateSweetRequest uses pointers so an omitted field stays nil and is
// left unchanged, while an explicitly supplied zero value is applied.
type updateSweetRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type sweetListResponse struct {
	Count  int           `json:"count"`
	Sweets []model.Sweet `json:"sweets"`
}

type sweetResponse struct {
	Message string       `json:"message"`
	Sweet   *model.Sweet `json:"sweet"`
}

// HandleCreate creates a sweet.
//
// HTTP: POST /api/sweets
func (h *SweetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req createSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sweet, err := h.sweets.Create(r.Context(), ident, service.CreateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sweetResponse{
		Message: "Sweet created successfully",
		Sweet:   sweet,
	})
}

// HandleList returns every sweet.
//
// HTTP: GET /api/sweets
func (h *SweetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.sweets.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sweetListResponse{
		Count:  len(sweets),
		Sweets: sweets,
	})
}

// HandleSearch returns the sweets matching the query parameters, all
// optional and ANDed: name (case-insensitive substring), category (exact),
// minPrice/maxPrice (inclusive).
//
// HTTP: GET /api/sweets/search?name=&category=&minPrice=&maxPrice=
func (h *SweetHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.SearchParams{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}

	if v := q.Get("minPrice"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			badRequest(w, "minPrice must be a number")
			return
		}
		params.MinPrice = &min
	}
	if v := q.Get("maxPrice"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			badRequest(w, "maxPrice must be a number")
			return
		}
		params.MaxPrice = &max
	}

	sweets, err := h.sweets.Search(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sweetListResponse{
		Count:  len(sweets),
		Sweets: sweets,
	})
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /api/sweets/{id}
func (h *SweetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sweet, err := h.sweets.Update(r.Context(), id, service.SweetPatch{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sweetResponse{
		Message: "Sweet updated successfully",
		Sweet:   sweet,
	})
}

// HandleDelete removes a sweet permanently and echoes the removed record.
// The service enforces the admin capability.
//
// HTTP: DELETE /api/sweets/{id}
func (h *SweetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	sweet, err := h.sweets.Delete(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message      string       `json:"message"`
		DeletedSweet *model.Sweet `json:"deletedSweet"`
	}{
		Message:      "Sweet deleted successfully",
		DeletedSweet: sweet,
	})
}

// HandlePurchase decrements stock and returns the receipt.
//
// HTTP: POST /api/sweets/{id}/purchase
func (h *SweetHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := h.sweets.Purchase(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message   string       `json:"message"`
		Sweet     *model.Sweet `json:"sweet"`
		Purchased int          `json:"purchased"`
		TotalCost float64      `json:"totalCost"`
	}{
		Message:   "Purchase successful",
		Sweet:     result.Sweet,
		Purchased: result.Purchased,
		TotalCost: result.TotalCost,
	})
}

// HandleRestock increments stock. The service enforces the admin
// capability.
//
// HTTP: POST /api/sweets/{id}/restock
func (h *SweetHandler) HandleRestock(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := h.sweets.Restock(r.Context(), ident, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message       string       `json:"message"`
		Sweet         *model.Sweet `json:"sweet"`
		AddedQuantity int          `json:"addedQuantity"`
	}{
		Message:       "Restock successful",
		Sweet:         result.Sweet,
		AddedQuantity: result.AddedQuantity,
	})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "valid authentication required",
	})
}
