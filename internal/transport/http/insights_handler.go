package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pulsecli/internal/errors"
	"pulsecli/internal/middleware"
	"pulsecli/internal/services"
)

// InsightsHandler handles report-related HTTP requests
type InsightsHandler struct {
	service      InsightsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(service InsightsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InsightsHandler {
	return &InsightsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "insights_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the insights routes with proper Chi patterns
func (h *InsightsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/transactions", h.GetTransactionDynamics)
	r.Get("/categories", h.GetCategoryTrends)
	r.Get("/devices", h.GetDeviceDominance)
	r.Get("/insurance", h.GetInsurancePenetration)
	r.Get("/engagement", h.GetUserEngagement)
	r.Get("/growth", h.GetMarketExpansion)
	r.Get("/reports", h.GetAllReports)
	r.Post("/refresh", h.RefreshDataset)

	return r
}

// GetTransactionDynamics handles GET /api/insights/transactions
func (h *InsightsHandler) GetTransactionDynamics(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching transaction dynamics")

	rows, err := h.service.TransactionDynamics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// GetCategoryTrends handles GET /api/insights/categories
func (h *InsightsHandler) GetCategoryTrends(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching category trends")

	rows, err := h.service.CategoryTrends(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// GetDeviceDominance handles GET /api/insights/devices
func (h *InsightsHandler) GetDeviceDominance(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching device dominance")

	rows, err := h.service.DeviceDominance(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// GetInsurancePenetration handles GET /api/insights/insurance
func (h *InsightsHandler) GetInsurancePenetration(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching insurance penetration")

	rows, err := h.service.InsurancePenetration(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// GetUserEngagement handles GET /api/insights/engagement
func (h *InsightsHandler) GetUserEngagement(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching user engagement")

	rows, err := h.service.UserEngagement(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// GetMarketExpansion handles GET /api/insights/growth with optional
// state, year and quarter query parameters
func (h *InsightsHandler) GetMarketExpansion(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching market expansion")

	filter := services.GrowthFilter{State: r.URL.Query().Get("state")}

	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "year must be an integer"))
			return
		}
		filter.Year = year
	}

	if quarterParam := r.URL.Query().Get("quarter"); quarterParam != "" {
		quarter, err := strconv.Atoi(quarterParam)
		if err != nil || quarter < 1 || quarter > 4 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("quarter", "quarter must be between 1 and 4"))
			return
		}
		filter.Quarter = quarter
	}

	records, err := h.service.MarketExpansion(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

// GetAllReports handles GET /api/insights/reports
func (h *InsightsHandler) GetAllReports(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "fetching all reports")

	reports, err := h.service.AllReports(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, reports)
}

// RefreshDataset handles POST /api/insights/refresh
func (h *InsightsHandler) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "refreshing dataset")

	h.service.Refresh(r.Context())
	render.JSON(w, r, map[string]bool{"success": true})
}

func (h *InsightsHandler) logRequest(r *http.Request, msg string) {
	h.logger.InfoContext(r.Context(), msg,
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}
