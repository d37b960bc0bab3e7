package handlers

import (
	"net/http"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/middleware"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/models"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
)

// MaxScenarios bounds one API batch.
const MaxScenarios = 5000

// ScenarioHandler runs scenario batches and keeps results for later lookup
type ScenarioHandler struct {
	planner *planner.Planner
	results *store.Cache[*scenario.Result]
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(p *planner.Planner, ttl time.Duration) *ScenarioHandler {
	return &ScenarioHandler{planner: p, results: store.New[*scenario.Result](ttl)}
}

// Cache exposes the result cache so the server can sweep it.
func (h *ScenarioHandler) Cache() *store.Cache[*scenario.Result] { return h.results }

// RunScenarios handles POST /api/v1/scenarios
func (h *ScenarioHandler) RunScenarios(c *gin.Context) {
	var req models.ScenarioRequest
	if !bindOptional(c, &req) {
		return
	}
	if req.Scenarios != nil && req.Scenarios.NumScenarios > MaxScenarios {
		_ = c.Error(goerr.Wrap(middleware.ErrBadRequest, "too many scenarios",
			goerr.V("num_scenarios", req.Scenarios.NumScenarios), goerr.V("max", MaxScenarios)))
		return
	}

	players, _, err := h.planner.Market()
	if err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.planner.Scenarios(c.Request.Context(), players, req.Planner(), req.Scenarios)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id := h.results.Put(res)
	c.JSON(http.StatusOK, models.NewScenarioResponse(id, res, req.Options.IncludeScenarios))
}

// GetScenario handles GET /api/v1/scenarios/:id
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	id := c.Param("id")
	res, ok := h.results.Get(id)
	if !ok {
		_ = c.Error(goerr.Wrap(middleware.ErrNotFound, "scenario batch not found or expired", goerr.V("id", id)))
		return
	}
	c.JSON(http.StatusOK, models.NewScenarioResponse(id, res, true))
}
