package handler

import (
	"net/http"

	"github.com/dalbom/arithmetic/internal/middleware"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/response"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/dalbom/arithmetic/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PresetHandler handles saved worksheet configurations.
type PresetHandler struct {
	presetService    *service.PresetService
	worksheetService *service.WorksheetService
	log              zerolog.Logger
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(presetService *service.PresetService, worksheetService *service.WorksheetService, log zerolog.Logger) *PresetHandler {
	return &PresetHandler{
		presetService:    presetService,
		worksheetService: worksheetService,
		log:              log.With().Str("component", "preset_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/presets
func (h *PresetHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	presets, err := h.presetService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"presets": presets})
}

// Create godoc
// POST /api/v1/presets
// Saves a preset; the free plan keeps at most two.
func (h *PresetHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreatePresetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	preset, err := h.presetService.Create(c.Request.Context(), claims, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"preset": preset})
}

// Update godoc
// PUT /api/v1/presets/:id
func (h *PresetHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdatePresetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	preset, err := h.presetService.Update(c.Request.Context(), claims.UserID, id, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"preset": preset})
}

// Delete godoc
// DELETE /api/v1/presets/:id
func (h *PresetHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.presetService.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "preset deleted"})
}

// Generate godoc
// POST /api/v1/presets/:id/generate
// Generates a worksheet from a stored preset and marks the preset as used.
func (h *PresetHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GenerateFromPresetRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	ctx := c.Request.Context()
	preset, err := h.presetService.Get(ctx, claims.UserID, id)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	res, err := h.worksheetService.Generate(ctx, claims, preset.Config, service.GenerateOptions{
		UseLaTeX: req.UseLaTeX,
		Lang:     req.Lang,
	})
	if err != nil {
		failService(c, h.log, err)
		return
	}

	if err := h.presetService.Touch(ctx, claims.UserID, id); err != nil {
		h.log.Warn().Err(err).Str("preset_id", id.String()).Msg("Failed to mark preset as used")
	}

	response.Success(c, http.StatusCreated, res)
}
