package movie

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shelf/internal/httpx"
)

// HTTPHandler serves the movie routes under /v1/movies.
type HTTPHandler struct {
	service *Service
}

// NewHTTPHandler creates a handler backed by service.
func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the movie routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/movies", h.List)
	mux.HandleFunc("POST /v1/movies", h.Create)
	mux.HandleFunc("DELETE /v1/movies", h.DeleteByTitle)
	mux.HandleFunc("POST /v1/movies/lookup", h.CreateFromLookup)
	mux.HandleFunc("GET /v1/movies/search", h.Search)
	mux.HandleFunc("GET /v1/movies/recommendations", h.Recommend)
	mux.HandleFunc("GET /v1/movies/genres", h.Genres)
	mux.HandleFunc("GET /v1/movies/groups", h.Groups)
	mux.HandleFunc("GET /v1/movies/stats", h.Stats)
	mux.HandleFunc("GET /v1/movies/{id}", h.Get)
	mux.HandleFunc("PATCH /v1/movies/{id}", h.Update)
	mux.HandleFunc("PUT /v1/movies/{id}/watched", h.MarkWatched)
	mux.HandleFunc("PUT /v1/movies/{id}/rating", h.Rate)
	mux.HandleFunc("DELETE /v1/movies/{id}", h.Delete)
}

// List handles GET /v1/movies?filter=all|watched|unwatched
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if _, err := ParseFilter(filter); err != nil {
		writeError(w, r, err)
		return
	}
	movies := h.service.List(filter)
	httpx.JSONSuccess(w, r, movies, map[string]interface{}{"total": len(movies)})
}

// Create handles POST /v1/movies
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in NewMovie
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	m, err := h.service.Add(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, m)
}

// CreateFromLookup handles POST /v1/movies/lookup with {"title": ...}
func (h *HTTPHandler) CreateFromLookup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	m, err := h.service.AddFromTitle(r.Context(), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, m)
}

// Get handles GET /v1/movies/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := h.service.Get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Update handles PATCH /v1/movies/{id} with {"field": ..., "value": ...}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	field, err := ParseField(req.Field)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.service.Update(id, field, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// MarkWatched handles PUT /v1/movies/{id}/watched. The body is optional and
// defaults to {"watched": true}.
func (h *HTTPHandler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req := struct {
		Watched bool `json:"watched"`
	}{Watched: true}
	if err := httpx.DecodeJSON(r, &req); err != nil && r.ContentLength > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	m, err := h.service.MarkWatched(id, req.Watched)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Rate handles PUT /v1/movies/{id}/rating with {"rating": ...}
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
	m, err := h.service.Rate(id, *req.Rating)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Delete handles DELETE /v1/movies/{id}
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

// DeleteByTitle handles DELETE /v1/movies?title=
func (h *HTTPHandler) DeleteByTitle(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "title query parameter is required", nil)
		return
	}
	removed, err := h.service.DeleteByTitle(title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, removed, map[string]interface{}{"deleted": len(removed)})
}

// Search handles GET /v1/movies/search?q=&by=title|genre
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var movies []Movie
	switch strings.ToLower(query.Get("by")) {
	case "", string(FieldTitle):
		movies = h.service.Search(query.Get("q"))
	case string(FieldGenre):
		movies = h.service.SearchByGenre(query.Get("q"))
	default:
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "by must be one of: title, genre", nil)
		return
	}
	httpx.JSONSuccess(w, r, movies, map[string]interface{}{"total": len(movies)})
}

// Recommend handles GET /v1/movies/recommendations?genre=&min_rating=
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
	movies := h.service.Recommend(query.Get("genre"), minRating)
	httpx.JSONSuccess(w, r, movies, map[string]interface{}{"total": len(movies)})
}

// Genres handles GET /v1/movies/genres
func (h *HTTPHandler) Genres(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.service.Genres(), nil)
}

// Groups handles GET /v1/movies/groups
func (h *HTTPHandler) Groups(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.service.GroupByGenre(), nil)
}

// Stats handles GET /v1/movies/stats
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
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidField):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), httpx.ValidationDetails(err))
	case errors.Is(err, ErrPersist):
		httpx.JSONError(w, r, http.StatusInternalServerError, "PERSIST_FAILED", "Change applied but could not be saved", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
