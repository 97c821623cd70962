package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// List handles GET /v1/titles?name=&year=&genre=&category=
func (h *TitleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, errs := request.ParseTitleFilter(query)
	if len(errs) > 0 {
		utils.ResponseValidation(w, "Invalid filter", errs)
		return
	}

	titles, err := h.service.List(r.Context(), filter, request.NewPaginatedRequest(query))
	if err != nil {
		handleServiceError(w, h.log, err, "list titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// Get handles GET /v1/titles/{title_id}
func (h *TitleHandler) Get(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.Get(r.Context(), chi.URLParam(r, "title_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// Create handles POST /v1/titles (admin)
func (h *TitleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created successfully", title)
}

// Update handles PATCH /v1/titles/{title_id} (admin)
func (h *TitleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.TitleUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.Update(r.Context(), chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated successfully", title)
}

// Delete handles DELETE /v1/titles/{title_id} (admin)
func (h *TitleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "title_id")); err != nil {
		handleServiceError(w, h.log, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
