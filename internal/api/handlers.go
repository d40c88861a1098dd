package api

import (
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizledger/report-exporter/internal/service"
	"github.com/bizledger/report-exporter/pkg/requestid"
)

type Handler struct {
	svc *service.ExportService
}

func NewHandler(svc *service.ExportService) *Handler {
	return &Handler{svc: svc}
}

type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// (POST /api/v1/reports/{name}/export)
func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	var req service.ExportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	meta := service.RequestMeta{
		CreatedBy:     r.Header.Get("X-User"),
		ClientIP:      clientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: requestid.FromContext(r.Context()),
	}

	handle, err := h.svc.Enqueue(r.Context(), chi.URLParam(r, "name"), req, meta)
	if err != nil {
		switch err.(type) {
		case *service.ErrUnknownReportName, *service.ErrInvalidExportFormat:
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			zap.S().Named("api_server").Errorw("failed to enqueue export", "error", err)
			renderError(w, r, http.StatusInternalServerError, "failed to enqueue export")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, handle)
}

// (GET /api/v1/exports/{id})
func (h *Handler) GetExportStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid export id")
		return
	}

	handle, err := h.svc.GetStatus(r.Context(), id)
	if err != nil {
		zap.S().Named("api_server").Errorw("failed to read export status", "error", err)
		renderError(w, r, http.StatusInternalServerError, "failed to read export status")
		return
	}
	if handle == nil {
		renderError(w, r, http.StatusNotFound, "export not found")
		return
	}

	render.JSON(w, r, handle)
}

// (GET /api/v1/snapshots)
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			renderError(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	views, err := h.svc.ListSnapshots(r.Context(), service.SnapshotListOptions{
		ReportName: r.URL.Query().Get("type"),
		ParamsHash: r.URL.Query().Get("hash"),
		Limit:      limit,
	})
	if err != nil {
		if _, ok := err.(*service.ErrUnknownReportName); ok {
			renderError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		zap.S().Named("api_server").Errorw("failed to list snapshots", "error", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	render.JSON(w, r, views)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Message: message, RequestID: requestid.FromContext(r.Context())})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
