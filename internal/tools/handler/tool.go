package handler

import (
	"encoding/json"
	"net/http"

	"toolrent/internal/tools/service"
	apperrors "toolrent/pkg/errors"
	httputil "toolrent/pkg/http"
	"toolrent/pkg/logger"
	"toolrent/pkg/middleware"
	"toolrent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ToolHandler struct {
	service service.ToolService
	log     *logger.Logger
}

func NewToolHandler(service service.ToolService, log *logger.Logger) *ToolHandler {
	return &ToolHandler{
		service: service,
		log:     log,
	}
}

func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var tool model.Tool
	if err := json.NewDecoder(r.Body).Decode(&tool); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	// An authenticated caller lists tools as themselves.
	if subject := middleware.SubjectFromContext(r.Context()); subject != "" {
		if tool.OwnerID != "" && tool.OwnerID != subject {
			h.writeError(w, "Create", apperrors.Forbidden("owner_id does not match the authenticated user"))
			return
		}
		tool.OwnerID = subject
	}

	if err := h.service.Create(r.Context(), &tool); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, tool); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ToolHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tool, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, tool); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ToolHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	tools, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, tools, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ToolHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	query := r.URL.Query()

	tools, total, err := h.service.Search(r.Context(), query.Get("city"), query.Get("category"), limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, tools, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *ToolHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ToolUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}
	if err := h.authorizeOwner(r, id); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ToolHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.authorizeOwner(r, id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ToolHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/tools", h.Create)
	router.GET("/api/v1/tools", h.GetAll)
	router.GET("/api/v1/tools/search", h.Search)
	router.GET("/api/v1/tools/id/:id", h.GetByID)
	router.PATCH("/api/v1/tools/id/:id", h.Update)
	router.DELETE("/api/v1/tools/id/:id", h.Delete)
}

// authorizeOwner is a no-op without authentication.
func (h *ToolHandler) authorizeOwner(r *http.Request, id string) error {
	subject := middleware.SubjectFromContext(r.Context())
	if subject == "" {
		return nil
	}
	tool, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	if tool.OwnerID != subject {
		return apperrors.Forbidden("Tool belongs to another owner")
	}
	return nil
}

func (h *ToolHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
