package handlers

import (
	"net/http"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/models"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/gin-gonic/gin"
)

// PresetHandler handles preset-related requests
type PresetHandler struct{}

// NewPresetHandler creates a new preset handler
func NewPresetHandler() *PresetHandler {
	return &PresetHandler{}
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	resp := models.PresetsResponse{
		Rosters:   model.Presets(),
		Scenarios: make(map[string]scenario.Params),
	}
	for _, name := range scenario.PresetNames() {
		p, err := scenario.Preset(name)
		if err != nil {
			_ = c.Error(err)
			return
		}
		resp.Scenarios[name] = p
	}
	c.JSON(http.StatusOK, resp)
}
