package book

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/books", h.List)
	mux.HandleFunc("POST /v1/books", h.Create)
	mux.HandleFunc("POST /v1/books/isbn/{isbn}", h.CreateFromISBN)
	mux.HandleFunc("GET /v1/books/search", h.Search)
	mux.HandleFunc("GET /v1/books/recommendations", h.Recommend)
	mux.HandleFunc("GET /v1/books/groups", h.Groups)
	mux.HandleFunc("GET /v1/books/stats", h.Stats)
	mux.HandleFunc("GET /v1/books/{id}", h.Get)
	mux.HandleFunc("PATCH /v1/books/{id}", h.Update)
	mux.HandleFunc("PUT /v1/books/{id}/status", h.UpdateStatus)
	mux.HandleFunc("PUT /v1/books/{id}/rating", h.Rate)
	mux.HandleFunc("DELETE /v1/books/{id}", h.Delete)
}

// List handles GET /v1/books?status=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	if filter != "" && filter != "all" {
		if _, err := ParseStatus(filter); err != nil {
			writeError(w, r, err)
			return
		}
	}
	books := h.service.List(filter)
	httpx.JSONSuccess(w, r, books, map[string]interface{}{"total": len(books)})
}

// Create handles POST /v1/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in NewBook
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	b, err := h.service.Add(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// CreateFromISBN handles POST /v1/books/isbn/{isbn}
func (h *HTTPHandler) CreateFromISBN(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.AddFromISBN(r.Context(), r.PathValue("isbn"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Get handles GET /v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

type updateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Update handles PATCH /v1/books/{id} with {"field": ..., "value": ...}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	field, err := ParseField(req.Field)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.service.Update(id, field, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// UpdateStatus handles PUT /v1/books/{id}/status with {"status": ...}
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.service.UpdateStatus(id, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Rate handles PUT /v1/books/{id}/rating with {"rating": ...}
func (h *HTTPHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Rating *float64 `json:"rating"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Rating == nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must carry a numeric rating", nil)
		return
	}
	b, err := h.service.Rate(id, *req.Rating)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.service.Delete(id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Search handles GET /v1/books/search?q=&by=title|author|genre
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	books, err := h.service.Search(query.Get("q"), Field(strings.ToLower(query.Get("by"))))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]interface{}{"total": len(books)})
}

// Recommend handles GET /v1/books/recommendations?genre=&min_rating=
func (h *HTTPHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	minRating := DefaultMinRating
	if s := query.Get("min_rating"); s != "" {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "min_rating must be a number", nil)
			return
		}
		minRating = val
	}
	books := h.service.Recommend(query.Get("genre"), minRating)
	httpx.JSONSuccess(w, r, books, map[string]interface{}{"total": len(books)})
}

// Groups handles GET /v1/books/groups?by=genre|author
func (h *HTTPHandler) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.Group(Field(strings.ToLower(r.URL.Query().Get("by"))))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, groups, nil)
}

// Stats handles GET /v1/books/stats
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.service.Statistics(), nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrLookupNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "LOOKUP_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidField):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), httpx.ValidationDetails(err))
	case errors.Is(err, ErrPersist):
		httpx.JSONError(w, r, http.StatusInternalServerError, "PERSIST_FAILED", "Change applied but could not be saved", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
