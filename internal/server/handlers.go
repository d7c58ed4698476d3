package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stylesense/stylist-cli/internal/engine"
	"github.com/stylesense/stylist-cli/internal/model"
)

// recommendationRequest is the POST /recommendations body.
type recommendationRequest struct {
	TenantID    string               `json:"tenant_id"`
	Profile     model.ShopperProfile `json:"profile"`
	Season      string               `json:"season,omitempty"`
	Audience    string               `json:"audience,omitempty"`
	Count       int                  `json:"count,omitempty"`
	MinScore    float64              `json:"min_score,omitempty"`
	MaxScan     int                  `json:"max_scan,omitempty"`
	InStockOnly bool                 `json:"in_stock_only,omitempty"`
}

func (h *Handler) postRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.TenantID == "" {
		writeError(w, r, http.StatusBadRequest, "tenant_required", "tenant_id is required")
		return
	}
	if req.Profile.BodyShape == "" {
		writeError(w, r, http.StatusBadRequest, "body_shape_required", "profile.body_shape is required")
		return
	}

	res, err := h.engine.Recommend(r.Context(), engine.Request{
		TenantID:    req.TenantID,
		Profile:     req.Profile,
		Season:      req.Season,
		Audience:    req.Audience,
		Count:       req.Count,
		MinScore:    req.MinScore,
		MaxScan:     req.MaxScan,
		InStockOnly: req.InStockOnly,
	})
	switch {
	case errors.Is(err, engine.ErrNoMatches):
		writeError(w, r, http.StatusNotFound, "no_matches", "no items matched the request constraints")
		return
	case errors.Is(err, engine.ErrNotConfigured):
		writeError(w, r, http.StatusServiceUnavailable, "not_configured", "generative ranking is enabled but not configured")
		return
	case err != nil:
		zap.L().Error("server: recommend failed",
			zap.String("tenant", req.TenantID),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal", "recommendation failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) getCacheStatus(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	cs, err := h.store.CacheStatus(r.Context(), tenantID)
	if err != nil {
		zap.L().Error("server: cache status failed", zap.String("tenant", tenantID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "cache status failed")
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *Handler) getTenantSettings(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	rec, err := h.store.GetTenantSettings(r.Context(), tenantID)
	if err != nil {
		zap.L().Error("server: get settings failed", zap.String("tenant", tenantID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "get settings failed")
		return
	}
	if rec == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "no settings saved for tenant")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) putTenantSettings(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	var rec model.TenantSettingsRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	rec.TenantID = tenantID

	if err := h.store.SaveTenantSettings(r.Context(), rec); err != nil {
		zap.L().Error("server: save settings failed", zap.String("tenant", tenantID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal", "save settings failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "tenant_id": tenantID})
}
